package backfill

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"floor-metrics/internal/service/metrics"
)

type Backfiller interface {
	BackfillRange(ctx context.Context, unitID int64, startDate, endDate string, progress metrics.ProgressFunc) (metrics.BackfillResult, error)
}

type Request struct {
	UnitID    int64  `json:"unit_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// BackfillMetrics recomputes a whole date range for one unit. The response
// carries processed/skipped/failed counts so the operator can decide whether
// to re-run specific days.
func BackfillMetrics(log *slog.Logger, engine Backfiller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.metrics.BackfillMetrics"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if req.UnitID == 0 || req.StartDate == "" || req.EndDate == "" {
			http.Error(w, "unit_id, start_date and end_date are required", http.StatusBadRequest)
			return
		}

		// Backfills run one upsert per day, so the budget is generous.
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
		defer cancel()

		progress := func(done, total int) {
			log.Debug("backfill progress",
				slog.String("op", op),
				slog.Int64("unit_id", req.UnitID),
				slog.Int("done", done),
				slog.Int("total", total),
			)
		}

		result, err := engine.BackfillRange(ctx, req.UnitID, req.StartDate, req.EndDate, progress)
		if err != nil {
			log.Error("backfill failed",
				slog.String("op", op),
				slog.Int64("unit_id", req.UnitID),
				slog.String("error", err.Error()),
			)
			http.Error(w, "backfill failed", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, result)
	}
}
