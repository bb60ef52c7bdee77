package synthload

import (
	"fmt"
	"math"

	"github.com/runsight/crossover/internal/domain/model"
)

// Params are the classification parameters the reference uses. They
// must match what the service under test was configured with.
type Params struct {
	ToleranceSec  float64
	MinOverlapSec float64
}

// DefaultParams mirrors the engine defaults.
func DefaultParams() Params {
	return Params{ToleranceSec: 3.0, MinOverlapSec: 5.0}
}

// referenceCounts is the subset of overlap statistics the brute-force
// reference recomputes.
type referenceCounts struct {
	OvertakingA, OvertakingB int
	CopresenceA, CopresenceB int
	UniqueEncounters         int
}

// VerifyRun recomputes every converged segment with a direct all-pairs
// pass over the reported conflict zone and returns one message per
// mismatch. The reference shares no code with the classifier: arrivals
// and pair predicates are restated inline.
func VerifyRun(ds model.Dataset, run model.RunResult, p Params) []string {
	var mismatches []string
	for _, seg := range run.Segments {
		if seg.SkipReason != model.SkipNone || !seg.HasConvergence || seg.Zone == nil {
			continue
		}
		spec, ok := findSpec(ds, seg.SegmentID)
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: no segment spec in dataset", seg.SegmentID))
			continue
		}
		want := bruteForce(ds, spec, *seg.Zone, p)
		got := seg.Overlap
		if want.OvertakingA != got.OvertakingA || want.OvertakingB != got.OvertakingB {
			mismatches = append(mismatches, fmt.Sprintf("%s: overtaking %d/%d, reference %d/%d",
				seg.SegmentID, got.OvertakingA, got.OvertakingB, want.OvertakingA, want.OvertakingB))
		}
		if want.CopresenceA != got.CopresenceA || want.CopresenceB != got.CopresenceB {
			mismatches = append(mismatches, fmt.Sprintf("%s: co-presence %d/%d, reference %d/%d",
				seg.SegmentID, got.CopresenceA, got.CopresenceB, want.CopresenceA, want.CopresenceB))
		}
		if want.UniqueEncounters != got.UniqueEncounters {
			mismatches = append(mismatches, fmt.Sprintf("%s: encounters %d, reference %d",
				seg.SegmentID, got.UniqueEncounters, want.UniqueEncounters))
		}
	}
	return mismatches
}

// RunsEquivalent compares two runs segment by segment, ignoring run
// identity and timestamps. Repeated runs over the same dataset must be
// equivalent.
func RunsEquivalent(a, b model.RunResult) bool {
	if a.Summary != b.Summary || len(a.Segments) != len(b.Segments) {
		return false
	}
	for i := range a.Segments {
		sa, sb := a.Segments[i], b.Segments[i]
		if sa.SegmentID != sb.SegmentID || sa.SkipReason != sb.SkipReason ||
			sa.HasConvergence != sb.HasConvergence {
			return false
		}
		if sa.HasConvergence {
			if sa.Convergence.KMA != sb.Convergence.KMA || sa.Convergence.KMB != sb.Convergence.KMB {
				return false
			}
		}
		oa, ob := sa.Overlap, sb.Overlap
		if oa.OvertakingA != ob.OvertakingA || oa.OvertakingB != ob.OvertakingB ||
			oa.CopresenceA != ob.CopresenceA || oa.CopresenceB != ob.CopresenceB ||
			oa.UniqueEncounters != ob.UniqueEncounters {
			return false
		}
	}
	return true
}

func findSpec(ds model.Dataset, segmentID string) (model.SegmentPairSpec, bool) {
	for _, spec := range ds.Segments {
		if spec.SegmentID == segmentID {
			return spec, true
		}
	}
	return model.SegmentPairSpec{}, false
}

// bruteForce classifies every pair directly over the given zone.
func bruteForce(ds model.Dataset, spec model.SegmentPairSpec, zone model.ConflictZone, p Params) referenceCounts {
	cohortA := ds.Runners[spec.EventA]
	cohortB := ds.Runners[spec.EventB]
	wantPass := spec.Flow == model.FlowOvertake

	copresA := map[string]bool{}
	copresB := map[string]bool{}
	passA := map[string]bool{}
	passB := map[string]bool{}
	encounters := 0

	for _, ra := range cohortA {
		aEnter := arrivalSec(ds.Starts, ra, zone.FromKMA)
		aExit := arrivalSec(ds.Starts, ra, zone.ToKMA)
		for _, rb := range cohortB {
			bEnter := arrivalSec(ds.Starts, rb, zone.FromKMB)
			bExit := arrivalSec(ds.Starts, rb, zone.ToKMB)

			ov := math.Min(aExit, bExit) - math.Max(aEnter, bEnter)
			if ov < p.MinOverlapSec {
				continue
			}
			copresA[ra.RunnerID] = true
			copresB[rb.RunnerID] = true
			encounters++

			if !wantPass {
				continue
			}
			dEnter := aEnter - bEnter
			dExit := aExit - bExit
			if (dEnter > p.ToleranceSec && dExit < -p.ToleranceSec) ||
				(dEnter < -p.ToleranceSec && dExit > p.ToleranceSec) {
				passA[ra.RunnerID] = true
				passB[rb.RunnerID] = true
			}
		}
	}

	return referenceCounts{
		OvertakingA:      len(passA),
		OvertakingB:      len(passB),
		CopresenceA:      len(copresA),
		CopresenceB:      len(copresB),
		UniqueEncounters: encounters,
	}
}

func arrivalSec(starts model.StartTimes, r model.RunnerRecord, km float64) float64 {
	return starts[r.Event]*60 + r.StartOffsetSec + r.PaceSecPerKM*km
}
