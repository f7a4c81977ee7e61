package metrics

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"floor-metrics/internal/storage"
)

// Summary aggregates the stored metrics of a unit over today, the last 7
// days, or the last 30 days, all inclusive of today.
func (s *MetricService) Summary(ctx context.Context, unitID int64, period string) (*storage.PeriodSummary, error) {
	const op = "service.metrics.Summary"

	from, to, err := PeriodWindow(s.now(), period)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.store.FindMetricsRange(ctx, unitID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: unit %d, %s..%s: %w", op, unitID, from, to, ErrNoData)
	}

	return Summarize(period, from, to, rows), nil
}

// Summarize computes period totals and means over fetched rows.
//
// The efficiency mean parses the stored string value; a row that fails to
// parse contributes 0 to the sum, dragging the mean down instead of being
// excluded. The attainment mean excludes unusable rows. The asymmetry is
// long-standing documented behavior and is kept as-is.
func Summarize(period, from, to string, rows []*storage.EfficiencyMetric) *storage.PeriodSummary {
	summary := &storage.PeriodSummary{
		Period:    period,
		StartDate: from,
		EndDate:   to,
		Days:      rows,
	}
	if len(rows) == 0 {
		return summary
	}

	var effSum, attSum float64
	var attCount int

	for _, row := range rows {
		summary.TotalParts += row.PartsProduced
		summary.TotalRuntime += row.TotalRuntime
		summary.TotalDowntime += row.TotalDowntime

		if v, err := strconv.ParseFloat(strings.TrimSpace(row.Efficiency), 64); err == nil {
			effSum += v
		}

		if row.AttainmentPercentage != nil {
			v := *row.AttainmentPercentage
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				attSum += v
				attCount++
			}
		}
	}

	summary.AvgEfficiency = effSum / float64(len(rows))
	if attCount > 0 {
		avg := attSum / float64(attCount)
		summary.AvgAttainment = &avg
	}

	return summary
}
