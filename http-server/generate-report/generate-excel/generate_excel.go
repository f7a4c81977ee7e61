package generate_excel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"floor-metrics/internal/service/metrics"
)

type ReportGenerator interface {
	PeriodReport(ctx context.Context, unitID int64, period string) ([]byte, error)
}

func GenerateReportExcel(log *slog.Logger, gen ReportGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportExcel"

		unitID, err := strconv.ParseInt(r.URL.Query().Get("unit_id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid unit_id", http.StatusBadRequest)
			return
		}

		period := r.URL.Query().Get("period")
		if period == "" {
			period = metrics.PeriodMonth
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.PeriodReport(ctx, unitID, period)
		if err != nil {
			if errors.Is(err, metrics.ErrNoData) {
				http.Error(w, "no metrics for this period", http.StatusNotFound)
				return
			}
			log.Error("failed to generate excel", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("Efficiency_Report_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
