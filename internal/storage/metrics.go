package storage

import "time"

// EfficiencyMetric is the per-(unit, day) aggregate row. Efficiency,
// TargetCount and ActualCount are string-serialized for the legacy display
// schema; AttainmentPercentage is nil when no target could be determined.
type EfficiencyMetric struct {
	ID                   int64     `json:"id"`
	UnitID               int64     `json:"unit_id"`
	Date                 string    `json:"date"`
	TotalRuntime         float64   `json:"total_runtime"`
	TotalDowntime        float64   `json:"total_downtime"`
	PartsProduced        int       `json:"parts_produced"`
	Efficiency           string    `json:"efficiency"`
	AttainmentPercentage *float64  `json:"attainment_percentage"`
	TargetCount          string    `json:"target_count"`
	ActualCount          string    `json:"actual_count"`
	DowntimeMinutes      int       `json:"downtime_minutes"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// PeriodSummary is a day/week/month rollup over stored metrics. Days carries
// the raw per-day rows for charting.
type PeriodSummary struct {
	Period        string              `json:"period"`
	StartDate     string              `json:"start_date"`
	EndDate       string              `json:"end_date"`
	TotalParts    int                 `json:"total_parts"`
	TotalRuntime  float64             `json:"total_runtime"`
	TotalDowntime float64             `json:"total_downtime"`
	AvgEfficiency float64             `json:"avg_efficiency"`
	AvgAttainment *float64            `json:"avg_attainment"`
	Days          []*EfficiencyMetric `json:"days"`
}
