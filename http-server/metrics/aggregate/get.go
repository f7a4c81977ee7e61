package aggregate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"floor-metrics/internal/service/metrics"
	"floor-metrics/internal/storage"
)

type Summarizer interface {
	Summary(ctx context.Context, unitID int64, period string) (*storage.PeriodSummary, error)
}

func GetPeriodSummary(log *slog.Logger, engine Summarizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.metrics.GetPeriodSummary"

		unitID, err := strconv.ParseInt(r.URL.Query().Get("unit_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid unit_id", http.StatusBadRequest)
			return
		}

		period := r.URL.Query().Get("period")
		if period == "" {
			period = metrics.PeriodDay
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		summary, err := engine.Summary(ctx, unitID, period)
		if err != nil {
			if errors.Is(err, metrics.ErrNoData) {
				http.Error(w, "no metrics for this period", http.StatusNotFound)
				return
			}
			log.Error("summary failed",
				slog.String("op", op),
				slog.Int64("unit_id", unitID),
				slog.String("period", period),
				slog.String("error", err.Error()),
			)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, summary)
	}
}
