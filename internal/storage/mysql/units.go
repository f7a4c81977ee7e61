package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"floor-metrics/internal/storage"
)

func (s *Storage) GetUnits(ctx context.Context) ([]*storage.Unit, error) {
	const op = "storage.units.GetUnits.sql"

	stmt := `SELECT id, name, cell FROM units ORDER BY cell, name`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var units []*storage.Unit
	for rows.Next() {
		var unit storage.Unit
		if err := rows.Scan(&unit.ID, &unit.Name, &unit.Cell); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		units = append(units, &unit)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return units, nil
}

func (s *Storage) GetUnit(ctx context.Context, id int64) (*storage.Unit, error) {
	const op = "storage.units.GetUnit.sql"

	stmt := `SELECT id, name, cell FROM units WHERE id = ?`

	var unit storage.Unit
	err := s.db.QueryRowContext(ctx, stmt, id).Scan(&unit.ID, &unit.Name, &unit.Cell)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: unit %d not found: %w", op, id, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &unit, nil
}
