// Package synthload generates synthetic cohorts and verifies the
// convergence engine against an independent brute-force reference.
package synthload

import (
	"fmt"
	"math/rand"

	"github.com/runsight/crossover/internal/domain/model"
)

// Synthetic event names.
const (
	EventA = "wave-a"
	EventB = "wave-b"
)

// Config controls the synthetic dataset shape.
type Config struct {
	RunnersPerEvent int
	SegmentCount    int
	Seed            int64

	// Start times in minutes since midnight. A late fast wave chasing
	// an early slow wave guarantees convergence on most segments.
	StartAMin float64
	StartBMin float64

	// Pace bands in min/km.
	PaceAMin, PaceAMax float64
	PaceBMin, PaceBMax float64
}

// DefaultConfig returns a config that produces convergence-heavy data.
func DefaultConfig() Config {
	return Config{
		RunnersPerEvent: 200,
		SegmentCount:    4,
		Seed:            42,
		StartAMin:       460, // fast wave, starts later
		StartBMin:       420, // slow wave, starts earlier
		PaceAMin:        3.8,
		PaceAMax:        4.6,
		PaceBMin:        7.0,
		PaceBMax:        8.5,
	}
}

// GenerateDataset builds a deterministic synthetic dataset: two waves
// over SegmentCount shared 5 km stretches with offset B-side rulers.
func GenerateDataset(cfg Config) model.Dataset {
	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic synthetic data

	runners := map[string][]model.RunnerRecord{
		EventA: generateCohort(rng, EventA, cfg.RunnersPerEvent, cfg.PaceAMin, cfg.PaceAMax),
		EventB: generateCohort(rng, EventB, cfg.RunnersPerEvent, cfg.PaceBMin, cfg.PaceBMax),
	}

	segments := make([]model.SegmentPairSpec, cfg.SegmentCount)
	for i := range segments {
		fromA := float64(i) * 5
		// Event B measures the same ground 2 km further along its own
		// course, exercising the local-axis mapping. The offset is kept
		// small so the late fast wave still trails the early slow wave
		// at the segment entrance and catches it on course.
		fromB := fromA + 2
		segments[i] = model.SegmentPairSpec{
			SegmentID: fmt.Sprintf("S%02d", i+1),
			Label:     fmt.Sprintf("shared stretch %d", i+1),
			EventA:    EventA,
			EventB:    EventB,
			FromKMA:   fromA,
			ToKMA:     fromA + 5,
			FromKMB:   fromB,
			ToKMB:     fromB + 5,
			Flow:      model.FlowOvertake,
			Overtake:  true,
		}
	}

	return model.Dataset{
		Runners: runners,
		Starts: model.StartTimes{
			EventA: cfg.StartAMin,
			EventB: cfg.StartBMin,
		},
		Segments: segments,
	}
}

func generateCohort(rng *rand.Rand, event string, n int, paceMin, paceMax float64) []model.RunnerRecord {
	cohort := make([]model.RunnerRecord, n)
	for i := range cohort {
		paceMinPerKM := paceMin + rng.Float64()*(paceMax-paceMin)
		cohort[i] = model.RunnerRecord{
			Event:          event,
			RunnerID:       fmt.Sprintf("%d", i+1),
			PaceSecPerKM:   paceMinPerKM * 60,
			StartOffsetSec: rng.Float64() * 120, // staggered corral release
		}
	}
	return cohort
}
