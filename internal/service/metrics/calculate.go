package metrics

import (
	"math"
	"strconv"

	"floor-metrics/internal/storage"
)

// Calculation is the aggregate over one day's extracted tuples.
type Calculation struct {
	TotalRuntime  float64
	TotalDowntime float64
	PartsProduced int
	TargetParts   int
	Efficiency    float64
	Attainment    *float64
}

const attainmentCap = 200

// Aggregate is pure and order-independent: only sums feed the ratios.
func Aggregate(tuples []Tuple) Calculation {
	var calc Calculation

	for _, t := range tuples {
		calc.TotalRuntime += t.RuntimeSeconds
		calc.TotalDowntime += t.DowntimeSeconds
		calc.PartsProduced += t.Parts
		calc.TargetParts += t.Target
	}

	// No runtime signal at all is no evidence of loss, not 0%.
	calc.Efficiency = 100
	if calc.TotalRuntime > 0 && calc.TotalRuntime+calc.TotalDowntime > 0 {
		calc.Efficiency = calc.TotalRuntime / (calc.TotalRuntime + calc.TotalDowntime) * 100
	}

	if calc.TargetParts > 0 {
		calc.Attainment = CapAttainment(float64(calc.PartsProduced) / float64(calc.TargetParts) * 100)
	}

	return calc
}

// CapAttainment applies the shared sanity rules: NaN and Inf collapse to nil,
// anything above 200 is clamped to absorb data-entry errors.
func CapAttainment(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	if v > attainmentCap {
		v = attainmentCap
	}
	return &v
}

// FormatPercent is the 2-decimal serialization the legacy display schema uses.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// BuildMetric shapes a calculation into the stored row for (unitID, date).
func BuildMetric(unitID int64, date string, calc Calculation) *storage.EfficiencyMetric {
	return &storage.EfficiencyMetric{
		UnitID:               unitID,
		Date:                 date,
		TotalRuntime:         calc.TotalRuntime,
		TotalDowntime:        calc.TotalDowntime,
		PartsProduced:        calc.PartsProduced,
		Efficiency:           FormatPercent(calc.Efficiency),
		AttainmentPercentage: calc.Attainment,
		TargetCount:          strconv.Itoa(calc.TargetParts),
		ActualCount:          strconv.Itoa(calc.PartsProduced),
		DowntimeMinutes:      int(math.Round(calc.TotalDowntime / 60)),
	}
}
