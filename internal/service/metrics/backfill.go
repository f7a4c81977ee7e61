package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

type BackfillResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type RepairResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// ProgressFunc reports backfill progress as days done out of the total.
type ProgressFunc func(done, total int)

// BackfillRange recomputes every day in [startDate, endDate] inclusive. A day
// with no data counts as skipped, any other failure counts as failed and the
// range continues. Cancellation is checked between days and stops cleanly
// with the counts accumulated so far; no day is ever half-written because
// each day is a single upsert.
func (s *MetricService) BackfillRange(ctx context.Context, unitID int64, startDate, endDate string, progress ProgressFunc) (BackfillResult, error) {
	const op = "service.metrics.BackfillRange"

	var res BackfillResult

	start, err := time.ParseInLocation(dateLayout, startDate, time.Local)
	if err != nil {
		return res, fmt.Errorf("%s: invalid start date %q: %w", op, startDate, err)
	}
	end, err := time.ParseInLocation(dateLayout, endDate, time.Local)
	if err != nil {
		return res, fmt.Errorf("%s: invalid end date %q: %w", op, endDate, err)
	}
	if end.Before(start) {
		return res, fmt.Errorf("%s: end date %s before start date %s", op, endDate, startDate)
	}

	total := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		total++
	}

	done := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("%s: %w", op, err)
		}

		date := day.Format(dateLayout)
		_, err := s.Recompute(ctx, unitID, date)
		switch {
		case errors.Is(err, ErrNoData):
			res.Skipped++
		case err != nil:
			res.Failed++
			s.log.Error("backfill day failed",
				slog.String("op", op),
				slog.Int64("unit_id", unitID),
				slog.String("date", date),
				slog.String("error", err.Error()),
			)
		default:
			res.Processed++
		}

		done++
		if progress != nil {
			progress(done, total)
		}
	}

	return res, nil
}

// RepairMissingAttainment fills attainment on stored rows where it is null,
// deriving actual and target from the legacy count fields with the same
// fallback and capping rules as the calculator. unitID 0 covers all units;
// empty from/to leave the range unbounded.
func (s *MetricService) RepairMissingAttainment(ctx context.Context, unitID int64, from, to string) (RepairResult, error) {
	const op = "service.metrics.RepairMissingAttainment"

	var res RepairResult

	rows, err := s.store.FindMissingAttainment(ctx, unitID, from, to)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}

	for _, metric := range rows {
		actual, ok := parseCount(metric.ActualCount)
		if !ok {
			actual = metric.PartsProduced
		}
		target, ok := parseCount(metric.TargetCount)
		if !ok || target <= 0 {
			// A missing, unparseable or non-positive stored target all count
			// as "never recorded": assume 100% attainment.
			target = actual
		}
		if target <= 0 {
			res.Skipped++
			continue
		}

		attainment := CapAttainment(float64(actual) / float64(target) * 100)
		if attainment == nil {
			res.Skipped++
			continue
		}

		metric.AttainmentPercentage = attainment
		metric.ActualCount = strconv.Itoa(actual)
		metric.TargetCount = strconv.Itoa(target)

		if _, err := s.store.UpsertMetric(ctx, metric); err != nil {
			res.Failed++
			s.log.Error("attainment repair failed",
				slog.String("op", op),
				slog.Int64("unit_id", metric.UnitID),
				slog.String("date", metric.Date),
				slog.String("error", err.Error()),
			)
			continue
		}
		res.Updated++
	}

	return res, nil
}

func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
