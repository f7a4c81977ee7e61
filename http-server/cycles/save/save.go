package save

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"

	"floor-metrics/internal/storage"
)

type CycleSaver interface {
	SaveCycle(ctx context.Context, cycle storage.CycleRecord) (int64, error)
}

type Request struct {
	UnitID          int64      `json:"unit_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	PartsProduced   int        `json:"parts_produced"`
	ActualCycleTime *float64   `json:"actual_cycle_time"`
	Target          *int       `json:"target"`
	DowntimeMinutes *int       `json:"downtime_minutes"`
	Part            string     `json:"part"`
	PartID          string     `json:"part_id"`
}

type Response struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

// SaveCycleRecord logs one production cycle. The optional target, downtime,
// part and part-id fields are folded into the annotation string, the channel
// the metrics engine later reads them back from.
func SaveCycleRecord(log *slog.Logger, saver CycleSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cycles.SaveCycleRecord"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if req.UnitID == 0 {
			http.Error(w, "unit_id is required", http.StatusBadRequest)
			return
		}
		if req.PartsProduced < 0 {
			http.Error(w, "parts_produced must be non-negative", http.StatusBadRequest)
			return
		}
		if req.PartID != "" {
			if _, err := uuid.Parse(req.PartID); err != nil {
				http.Error(w, "part_id must be a valid uuid", http.StatusBadRequest)
				return
			}
		}

		cycle := storage.CycleRecord{
			UnitID:          req.UnitID,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			PartsProduced:   req.PartsProduced,
			ActualCycleTime: req.ActualCycleTime,
			TargetCount:     req.Target,
			Annotation:      buildAnnotation(req),
		}
		if req.Part != "" {
			cycle.Part = &req.Part
		}
		if req.PartID != "" {
			cycle.PartID = &req.PartID
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := saver.SaveCycle(ctx, cycle)
		if err != nil {
			log.Error("failed to save cycle", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, Response{Error: "failed to save cycle record"})
			return
		}

		render.JSON(w, r, Response{ID: id, Status: "ok"})
	}
}

func buildAnnotation(req Request) string {
	var tokens []string

	if req.Target != nil {
		tokens = append(tokens, fmt.Sprintf("target:%d", *req.Target))
	}
	if req.DowntimeMinutes != nil {
		tokens = append(tokens, fmt.Sprintf("downtime:%d", *req.DowntimeMinutes))
	}
	if req.Part != "" {
		tokens = append(tokens, "part:"+req.Part)
	}
	if req.PartID != "" {
		tokens = append(tokens, "partId:"+req.PartID)
	}

	return strings.Join(tokens, "|")
}
