package recompute

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"floor-metrics/internal/service/metrics"
	"floor-metrics/internal/storage"
)

type Recomputer interface {
	Recompute(ctx context.Context, unitID int64, date string) (*storage.EfficiencyMetric, error)
}

type Request struct {
	UnitID int64  `json:"unit_id"`
	Date   string `json:"date"`
}

// RecomputeMetric derives and upserts the metric row for one (unit, date).
// A day without closed cycles is reported as 404 with a specific reason, not
// as a server failure.
func RecomputeMetric(log *slog.Logger, engine Recomputer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.metrics.RecomputeMetric"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if req.UnitID == 0 || req.Date == "" {
			http.Error(w, "unit_id and date are required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		metric, err := engine.Recompute(ctx, req.UnitID, req.Date)
		if err != nil {
			if errors.Is(err, metrics.ErrNoData) {
				http.Error(w, "no production data for this date", http.StatusNotFound)
				return
			}
			log.Error("recompute failed",
				slog.String("op", op),
				slog.Int64("unit_id", req.UnitID),
				slog.String("date", req.Date),
				slog.String("error", err.Error()),
			)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, metric)
	}
}
