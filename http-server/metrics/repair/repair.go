package repair

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"floor-metrics/internal/service/metrics"
)

type AttainmentRepairer interface {
	RepairMissingAttainment(ctx context.Context, unitID int64, from, to string) (metrics.RepairResult, error)
}

type Request struct {
	UnitID int64  `json:"unit_id"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// RepairAttainment backfills the attainment field on stored metric rows where
// it is null. All fields are optional: a zero unit id covers every unit and
// empty dates leave the range unbounded. Admin-only route.
func RepairAttainment(log *slog.Logger, engine AttainmentRepairer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.metrics.RepairAttainment"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
		defer cancel()

		result, err := engine.RepairMissingAttainment(ctx, req.UnitID, req.From, req.To)
		if err != nil {
			log.Error("attainment repair failed", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "repair failed", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, result)
	}
}
