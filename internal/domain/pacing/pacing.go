// Package pacing implements the arrival-time model: a pure mapping from
// (event, runner, km) to predicted clock time.
package pacing

import (
	"github.com/runsight/crossover/internal/domain/model"
)

// SecondsPerMinute converts event start minutes to seconds.
const SecondsPerMinute = 60.0

// Model predicts arrival clock times from static pace and start-time
// assumptions. All times are seconds since midnight. The model holds no
// mutable state and is safe for concurrent use.
type Model struct {
	starts model.StartTimes
}

// New builds a model over the given event start times.
func New(starts model.StartTimes) *Model {
	return &Model{starts: starts}
}

// HasStart reports whether the event has a configured start time.
func (m *Model) HasStart(event string) bool {
	_, ok := m.starts[event]
	return ok
}

// Arrival returns the clock time, in seconds since midnight, at which r
// is predicted to reach km on its own course ruler. The caller
// guarantees km lies within the runner's valid course range and that
// the runner's event has a start time.
func (m *Model) Arrival(r model.RunnerRecord, km float64) float64 {
	return m.starts[r.Event]*SecondsPerMinute + r.StartOffsetSec + r.PaceSecPerKM*km
}

// ArrivalAll computes arrival times for every runner of cohort at a
// fixed km, appending into dst to allow buffer reuse across scan steps.
func (m *Model) ArrivalAll(dst []float64, cohort []model.RunnerRecord, km float64) []float64 {
	dst = dst[:0]
	if len(cohort) == 0 {
		return dst
	}
	base := m.starts[cohort[0].Event] * SecondsPerMinute
	for i := range cohort {
		dst = append(dst, base+cohort[i].StartOffsetSec+cohort[i].PaceSecPerKM*km)
	}
	return dst
}
