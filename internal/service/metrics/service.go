package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"floor-metrics/internal/storage"
)

// ErrNoData signals a day (or window) with no production data. Callers treat
// it as "nothing to report", not as a system fault.
var ErrNoData = errors.New("no production data for this date")

type CycleSource interface {
	FindClosedCycles(ctx context.Context, unitID int64, dayStart, dayEnd time.Time) ([]*storage.CycleRecord, error)
}

type MetricStore interface {
	UpsertMetric(ctx context.Context, metric *storage.EfficiencyMetric) (*storage.EfficiencyMetric, error)
	FindMetricsRange(ctx context.Context, unitID int64, from, to string) ([]*storage.EfficiencyMetric, error)
	FindMissingAttainment(ctx context.Context, unitID int64, from, to string) ([]*storage.EfficiencyMetric, error)
}

// MetricService is the efficiency and attainment engine. It holds no state of
// its own: every operation is a pure computation over the store's contents,
// and the store owns the atomicity of the (unit, date) upsert.
type MetricService struct {
	cycles CycleSource
	store  MetricStore
	log    *slog.Logger
	now    func() time.Time
}

func NewMetricService(cycles CycleSource, store MetricStore, log *slog.Logger) *MetricService {
	return &MetricService{
		cycles: cycles,
		store:  store,
		log:    log,
		now:    time.Now,
	}
}

const dateLayout = "2006-01-02"

// dayBounds returns [00:00:00.000, 23:59:59.999] local time for a date.
// AddDate keeps the bound inside the calendar day on DST-transition days,
// where the local day is not 24 hours long.
func dayBounds(date string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end, nil
}

// PeriodWindow resolves a reporting period to an inclusive [from, to] date
// pair: day is today only, week the last 7 days, month the last 30.
func PeriodWindow(now time.Time, period string) (string, string, error) {
	to := now.Format(dateLayout)

	switch period {
	case PeriodDay:
		return to, to, nil
	case PeriodWeek:
		return now.AddDate(0, 0, -6).Format(dateLayout), to, nil
	case PeriodMonth:
		return now.AddDate(0, 0, -29).Format(dateLayout), to, nil
	default:
		return "", "", fmt.Errorf("unknown period %q", period)
	}
}

const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)
