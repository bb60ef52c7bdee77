package convergence

import (
	"math"

	"github.com/runsight/crossover/internal/domain/axis"
	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/internal/domain/pacing"
)

// Default scan parameters.
const (
	DefaultStepKM       = 0.01
	DefaultToleranceSec = 3.0
)

// Locator walks a segment window and finds the first km where any
// runner pair of the two cohorts arrives within tolerance of each
// other. An absent result is a normal outcome, not an error:
// well-separated start times commonly produce none.
type Locator struct {
	model  *pacing.Model
	stepKM float64
	tolSec float64
}

// NewLocator builds a locator over the given arrival-time model.
func NewLocator(m *pacing.Model, opts ...Option) *Locator {
	l := &Locator{
		model:  m,
		stepKM: DefaultStepKM,
		tolSec: DefaultToleranceSec,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ToleranceSec returns the configured time-equality tolerance.
func (l *Locator) ToleranceSec() float64 { return l.tolSec }

// Find scans event A's window from fromA to toA in step increments and
// returns the first (smallest-km) point where any pair's arrival times
// are within tolerance, rounded to two decimals, together with its
// projection onto event B's ruler. Returns nil when no temporal overlap
// exists anywhere on the segment. Empty cohorts or a non-positive
// window short-circuit immediately.
func (l *Locator) Find(cohortA, cohortB []model.RunnerRecord, mapper *axis.Mapper, fromA, toA float64) *model.ConvergencePoint {
	if len(cohortA) == 0 || len(cohortB) == 0 || toA-fromA <= 0 {
		return nil
	}

	var bufA, bufB []float64
	// The epsilon keeps the final boundary step from being dropped to
	// accumulated float error.
	const eps = 1e-9
	for km := fromA; km <= toA+eps; km += l.stepKM {
		kmB, _ := mapper.AToB(km)
		bufA = l.model.ArrivalAll(bufA, cohortA, km)
		bufB = l.model.ArrivalAll(bufB, cohortB, kmB)
		if anyPairWithin(bufA, bufB, l.tolSec) {
			kmA := roundKM(km)
			mappedB, _ := mapper.AToB(kmA)
			return &model.ConvergencePoint{KMA: kmA, KMB: roundKM(mappedB)}
		}
	}
	return nil
}

// anyPairWithin reports whether any cross-cohort pair of arrival times
// differs by at most tol seconds. The scan is all-pairs on purpose:
// first qualifying km wins regardless of how many pairs qualify there.
func anyPairWithin(timesA, timesB []float64, tol float64) bool {
	for _, ta := range timesA {
		for _, tb := range timesB {
			if math.Abs(ta-tb) <= tol {
				return true
			}
		}
	}
	return false
}

func roundKM(km float64) float64 {
	return math.Round(km*100) / 100
}
