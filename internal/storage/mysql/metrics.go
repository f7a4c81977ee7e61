package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"floor-metrics/internal/storage"
)

const metricColumns = `
	id, unit_id, DATE_FORMAT(date, '%Y-%m-%d'), total_runtime, total_downtime,
	parts_produced, efficiency, attainment_percentage, target_count, actual_count,
	downtime_minutes, created_at, updated_at
`

// FindMetric returns the metric row for (unitID, date), or nil when none exists.
func (s *Storage) FindMetric(ctx context.Context, unitID int64, date string) (*storage.EfficiencyMetric, error) {
	const op = "storage.metrics.FindMetric.sql"

	stmt := `SELECT ` + metricColumns + ` FROM efficiency_metrics WHERE unit_id = ? AND date = ?`

	row := s.db.QueryRowContext(ctx, stmt, unitID, date)

	metric, err := scanMetricRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return metric, nil
}

// UpsertMetric writes a metric row keyed by (unit_id, date). The table carries
// a unique key on that pair, so concurrent writers for the same key resolve to
// a single row regardless of interleaving.
func (s *Storage) UpsertMetric(ctx context.Context, metric *storage.EfficiencyMetric) (*storage.EfficiencyMetric, error) {
	const op = "storage.metrics.UpsertMetric.sql"

	stmt := `
		INSERT INTO efficiency_metrics
			(unit_id, date, total_runtime, total_downtime, parts_produced,
			 efficiency, attainment_percentage, target_count, actual_count,
			 downtime_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			total_runtime = VALUES(total_runtime),
			total_downtime = VALUES(total_downtime),
			parts_produced = VALUES(parts_produced),
			efficiency = VALUES(efficiency),
			attainment_percentage = VALUES(attainment_percentage),
			target_count = VALUES(target_count),
			actual_count = VALUES(actual_count),
			downtime_minutes = VALUES(downtime_minutes),
			updated_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, stmt,
		metric.UnitID,
		metric.Date,
		metric.TotalRuntime,
		metric.TotalDowntime,
		metric.PartsProduced,
		metric.Efficiency,
		metric.AttainmentPercentage,
		metric.TargetCount,
		metric.ActualCount,
		metric.DowntimeMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stored, err := s.FindMetric(ctx, metric.UnitID, metric.Date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if stored == nil {
		return nil, fmt.Errorf("%s: row not found after upsert", op)
	}

	return stored, nil
}

// FindMetricsRange returns the metric rows for a unit with date in [from, to],
// oldest first. Dates are YYYY-MM-DD strings.
func (s *Storage) FindMetricsRange(ctx context.Context, unitID int64, from, to string) ([]*storage.EfficiencyMetric, error) {
	const op = "storage.metrics.FindMetricsRange.sql"

	stmt := `SELECT ` + metricColumns + `
		FROM efficiency_metrics
		WHERE unit_id = ? AND date BETWEEN ? AND ?
		ORDER BY date`

	rows, err := s.db.QueryContext(ctx, stmt, unitID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var metrics []*storage.EfficiencyMetric
	for rows.Next() {
		metric, err := scanMetricRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		metrics = append(metrics, metric)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return metrics, nil
}

// FindMissingAttainment returns metric rows with no attainment value.
// unitID 0 matches all units; empty from/to leave the range unbounded.
func (s *Storage) FindMissingAttainment(ctx context.Context, unitID int64, from, to string) ([]*storage.EfficiencyMetric, error) {
	const op = "storage.metrics.FindMissingAttainment.sql"

	stmt := `SELECT ` + metricColumns + `
		FROM efficiency_metrics
		WHERE attainment_percentage IS NULL`
	var args []interface{}

	if unitID != 0 {
		stmt += " AND unit_id = ?"
		args = append(args, unitID)
	}
	if from != "" {
		stmt += " AND date >= ?"
		args = append(args, from)
	}
	if to != "" {
		stmt += " AND date <= ?"
		args = append(args, to)
	}
	stmt += " ORDER BY unit_id, date"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var metrics []*storage.EfficiencyMetric
	for rows.Next() {
		metric, err := scanMetricRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		metrics = append(metrics, metric)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return metrics, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMetricRow(row rowScanner) (*storage.EfficiencyMetric, error) {
	var metric storage.EfficiencyMetric
	var attainment sql.NullFloat64
	var targetCount, actualCount sql.NullString

	err := row.Scan(
		&metric.ID,
		&metric.UnitID,
		&metric.Date,
		&metric.TotalRuntime,
		&metric.TotalDowntime,
		&metric.PartsProduced,
		&metric.Efficiency,
		&attainment,
		&targetCount,
		&actualCount,
		&metric.DowntimeMinutes,
		&metric.CreatedAt,
		&metric.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if attainment.Valid {
		v := attainment.Float64
		metric.AttainmentPercentage = &v
	}
	if targetCount.Valid {
		metric.TargetCount = targetCount.String
	}
	if actualCount.Valid {
		metric.ActualCount = actualCount.String
	}

	return &metric, nil
}
