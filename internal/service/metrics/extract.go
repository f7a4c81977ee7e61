package metrics

import (
	"floor-metrics/internal/storage"
)

// Tuple is the normalized per-cycle contribution to a day's aggregate.
type Tuple struct {
	Parts           int
	RuntimeSeconds  float64
	DowntimeSeconds float64
	Target          int
}

// Extract normalizes one cycle record. It never fails: malformed annotation
// tokens degrade to the documented defaults and are returned so the caller
// can log them.
func Extract(cycle *storage.CycleRecord) (Tuple, []string) {
	ann := ParseAnnotation(cycle.Annotation)

	tuple := Tuple{Parts: cycle.PartsProduced}
	if cycle.ActualCycleTime != nil {
		tuple.RuntimeSeconds = *cycle.ActualCycleTime
	}

	// Target resolution: structured field first, then the annotation token,
	// then the parts count itself (no target signal means 100% attainment).
	switch {
	case cycle.TargetCount != nil && *cycle.TargetCount > 0:
		tuple.Target = *cycle.TargetCount
	case ann.Target != nil && *ann.Target > 0:
		tuple.Target = *ann.Target
	default:
		tuple.Target = tuple.Parts
	}

	if ann.DowntimeMinutes != nil {
		tuple.DowntimeSeconds = float64(*ann.DowntimeMinutes) * 60
	}

	return tuple, ann.Malformed
}
