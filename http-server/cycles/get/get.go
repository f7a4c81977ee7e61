package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"floor-metrics/internal/storage"
)

type CycleProvider interface {
	GetCyclesByDay(ctx context.Context, unitID int64, dayStart, dayEnd time.Time) ([]*storage.CycleRecord, error)
}

func GetCyclesByDay(log *slog.Logger, cycles CycleProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cycles.GetCyclesByDay"

		unitID, err := strconv.ParseInt(r.URL.Query().Get("unit_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid unit_id", http.StatusBadRequest)
			return
		}

		date := r.URL.Query().Get("date")
		dayStart, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Millisecond)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		records, err := cycles.GetCyclesByDay(ctx, unitID, dayStart, dayEnd)
		if err != nil {
			log.Error("failed to fetch cycles", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, records)
	}
}
