package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"floor-metrics/internal/storage"
)

// FindClosedCycles returns the cycle records for a unit whose end_time falls
// inside [dayStart, dayEnd]. Open cycles (end_time IS NULL) are excluded here
// so they can never reach the aggregation path.
func (s *Storage) FindClosedCycles(ctx context.Context, unitID int64, dayStart, dayEnd time.Time) ([]*storage.CycleRecord, error) {
	const op = "storage.cycles.FindClosedCycles.sql"

	stmt := `
		SELECT id, unit_id, start_time, end_time, parts_produced, actual_cycle_time,
		       target_count, part, part_id, annotation, created_at
		FROM cycle_records
		WHERE unit_id = ?
		  AND end_time IS NOT NULL
		  AND end_time BETWEEN ? AND ?
		ORDER BY end_time
	`

	rows, err := s.db.QueryContext(ctx, stmt, unitID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var cycles []*storage.CycleRecord
	for rows.Next() {
		cycle, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cycles = append(cycles, cycle)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cycles, nil
}

// GetCyclesByDay returns every cycle of a unit started on the given day,
// open ones included, for the data-entry screen.
func (s *Storage) GetCyclesByDay(ctx context.Context, unitID int64, dayStart, dayEnd time.Time) ([]*storage.CycleRecord, error) {
	const op = "storage.cycles.GetCyclesByDay.sql"

	stmt := `
		SELECT id, unit_id, start_time, end_time, parts_produced, actual_cycle_time,
		       target_count, part, part_id, annotation, created_at
		FROM cycle_records
		WHERE unit_id = ?
		  AND start_time BETWEEN ? AND ?
		ORDER BY start_time
	`

	rows, err := s.db.QueryContext(ctx, stmt, unitID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var cycles []*storage.CycleRecord
	for rows.Next() {
		cycle, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cycles = append(cycles, cycle)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cycles, nil
}

func (s *Storage) SaveCycle(ctx context.Context, cycle storage.CycleRecord) (int64, error) {
	const op = "storage.cycles.SaveCycle.sql"

	stmt := `
		INSERT INTO cycle_records
			(unit_id, start_time, end_time, parts_produced, actual_cycle_time,
			 target_count, part, part_id, annotation, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`

	res, err := s.db.ExecContext(ctx, stmt,
		cycle.UnitID,
		cycle.StartTime,
		cycle.EndTime,
		cycle.PartsProduced,
		cycle.ActualCycleTime,
		cycle.TargetCount,
		cycle.Part,
		cycle.PartID,
		cycle.Annotation,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func scanCycle(rows *sql.Rows) (*storage.CycleRecord, error) {
	var cycle storage.CycleRecord
	var endTime sql.NullTime
	var cycleTime sql.NullFloat64
	var targetCount sql.NullInt64
	var part, partID, annotation sql.NullString

	err := rows.Scan(
		&cycle.ID,
		&cycle.UnitID,
		&cycle.StartTime,
		&endTime,
		&cycle.PartsProduced,
		&cycleTime,
		&targetCount,
		&part,
		&partID,
		&annotation,
		&cycle.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		t := endTime.Time
		cycle.EndTime = &t
	}
	if cycleTime.Valid {
		v := cycleTime.Float64
		cycle.ActualCycleTime = &v
	}
	if targetCount.Valid {
		n := int(targetCount.Int64)
		cycle.TargetCount = &n
	}
	if part.Valid {
		cycle.Part = &part.String
	}
	if partID.Valid {
		cycle.PartID = &partID.String
	}
	if annotation.Valid {
		cycle.Annotation = annotation.String
	}

	return &cycle, nil
}
