package storage

import "time"

// CycleRecord is one logged production run on a unit. EndTime is nil while
// the cycle is still open; open cycles never contribute to metrics.
type CycleRecord struct {
	ID              int64      `json:"id"`
	UnitID          int64      `json:"unit_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	PartsProduced   int        `json:"parts_produced"`
	ActualCycleTime *float64   `json:"actual_cycle_time"`
	TargetCount     *int       `json:"target_count"`
	Part            *string    `json:"part"`
	PartID          *string    `json:"part_id"`
	Annotation      string     `json:"annotation"`
	CreatedAt       time.Time  `json:"created_at"`
}
