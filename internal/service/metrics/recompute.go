package metrics

import (
	"context"
	"fmt"
	"log/slog"

	"floor-metrics/internal/storage"
)

// Recompute derives and upserts the metric row for one (unit, day) key. It is
// idempotent: the same closed cycles always produce the same stored values,
// and repeated calls update the existing row rather than inserting another.
func (s *MetricService) Recompute(ctx context.Context, unitID int64, date string) (*storage.EfficiencyMetric, error) {
	const op = "service.metrics.Recompute"

	dayStart, dayEnd, err := dayBounds(date)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid date %q: %w", op, date, err)
	}

	cycles, err := s.cycles.FindClosedCycles(ctx, unitID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tuples := make([]Tuple, 0, len(cycles))
	for _, cycle := range cycles {
		// The source only returns closed cycles, but an open one must never
		// be summarized regardless of where it came from.
		if cycle.EndTime == nil {
			continue
		}

		tuple, malformed := Extract(cycle)
		for _, token := range malformed {
			s.log.Debug("skipping malformed annotation token",
				slog.String("op", op),
				slog.Int64("cycle_id", cycle.ID),
				slog.String("token", token),
			)
		}
		tuples = append(tuples, tuple)
	}

	if len(tuples) == 0 {
		return nil, fmt.Errorf("%s: unit %d, %s: %w", op, unitID, date, ErrNoData)
	}

	metric := BuildMetric(unitID, date, Aggregate(tuples))

	stored, err := s.store.UpsertMetric(ctx, metric)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stored, nil
}
