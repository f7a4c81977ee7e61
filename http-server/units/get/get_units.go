package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"floor-metrics/internal/storage"
)

type UnitProvider interface {
	GetUnits(ctx context.Context) ([]*storage.Unit, error)
}

func GetUnits(log *slog.Logger, units UnitProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.units.GetUnits"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := units.GetUnits(ctx)
		if err != nil {
			log.Error("failed to fetch units", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, list)
	}
}
