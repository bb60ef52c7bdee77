// Package overlap computes per-runner entry/exit times in a conflict
// zone and classifies runner pairs as true passes or co-presence.
package overlap

import (
	"math"
	"sort"
	"strconv"

	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/internal/domain/pacing"
)

// Default classification parameters.
const (
	DefaultMinOverlapSec = 5.0
	DefaultToleranceSec  = 3.0
	DefaultSampleSize    = 10
)

// Classifier evaluates pairwise temporal overlap inside a conflict
// zone. Every overlapping pair counts as co-presence; a pair
// additionally counts as a true pass only when the arrival-time curves
// cross inside the zone, which for linear pace models means the pace
// ordering flips between zone entry and exit.
type Classifier struct {
	model         *pacing.Model
	selector      *Selector
	minOverlapSec float64
	tolSec        float64
	sampleSize    int
}

// NewClassifier builds a classifier over the given arrival-time model.
func NewClassifier(m *pacing.Model, opts ...Option) *Classifier {
	c := &Classifier{
		model:         m,
		selector:      NewSelector(),
		minOverlapSec: DefaultMinOverlapSec,
		tolSec:        DefaultToleranceSec,
		sampleSize:    DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// interval is one runner's presence window inside the zone.
type interval struct {
	id    string
	enter float64
	exit  float64
}

// Classify computes the overlap statistics for one zone. Counts use set
// semantics throughout, so the result is independent of cohort
// iteration order. True-pass computation is skipped entirely for
// non-overtake flow types, where overtaking is not meaningful.
func (c *Classifier) Classify(spec model.SegmentPairSpec, cohortA, cohortB []model.RunnerRecord, zone model.ConflictZone) model.OverlapResult {
	if len(cohortA) == 0 || len(cohortB) == 0 {
		return model.OverlapResult{}
	}

	ivA := c.intervals(cohortA, zone.FromKMA, zone.ToKMA)
	ivB := c.intervals(cohortB, zone.FromKMB, zone.ToKMB)

	mode := c.selector.Select(occupancyOverlap(ivA, ivB), zone.LengthA())
	wantPass := spec.Flow == model.FlowOvertake

	agg := newAggregate()
	if mode.Binned() {
		c.classifyBinned(ivA, ivB, wantPass, agg)
	} else {
		c.classifyExact(ivA, ivB, wantPass, agg)
	}

	return model.OverlapResult{
		OvertakingA:          len(agg.passA),
		OvertakingB:          len(agg.passB),
		CopresenceA:          len(agg.copresA),
		CopresenceB:          len(agg.copresB),
		UniqueEncounters:     agg.encounters,
		ParticipantsInvolved: len(agg.copresA) + len(agg.copresB),
		SampleA:              sampleIDs(agg.copresA, c.sampleSize),
		SampleB:              sampleIDs(agg.copresB, c.sampleSize),
		TimeBinned:           mode.TimeBinned,
		DistanceBinned:       mode.DistanceBinned,
	}
}

// intervals computes zone entry/exit times for a cohort.
func (c *Classifier) intervals(cohort []model.RunnerRecord, fromKM, toKM float64) []interval {
	out := make([]interval, len(cohort))
	for i, r := range cohort {
		out[i] = interval{
			id:    r.RunnerID,
			enter: c.model.Arrival(r, fromKM),
			exit:  c.model.Arrival(r, toKM),
		}
	}
	return out
}

// aggregate accumulates pair outcomes with set semantics.
type aggregate struct {
	copresA, copresB map[string]struct{}
	passA, passB     map[string]struct{}
	encounters       int
}

func newAggregate() *aggregate {
	return &aggregate{
		copresA: make(map[string]struct{}),
		copresB: make(map[string]struct{}),
		passA:   make(map[string]struct{}),
		passB:   make(map[string]struct{}),
	}
}

// record evaluates one pair and folds the outcome into the aggregate.
func (c *Classifier) record(a, b interval, wantPass bool, agg *aggregate) {
	ov := math.Min(a.exit, b.exit) - math.Max(a.enter, b.enter)
	if ov < c.minOverlapSec {
		return
	}
	agg.copresA[a.id] = struct{}{}
	agg.copresB[b.id] = struct{}{}
	agg.encounters++
	if wantPass && c.crosses(a, b) {
		agg.passA[a.id] = struct{}{}
		agg.passB[b.id] = struct{}{}
	}
}

// crosses reports whether the two arrival-time curves cross inside the
// zone: the later-entering runner exits earlier, or vice versa, beyond
// the equality tolerance.
func (c *Classifier) crosses(a, b interval) bool {
	dEnter := a.enter - b.enter
	dExit := a.exit - b.exit
	return (dEnter > c.tolSec && dExit < -c.tolSec) ||
		(dEnter < -c.tolSec && dExit > c.tolSec)
}

// classifyExact evaluates every pair directly.
func (c *Classifier) classifyExact(ivA, ivB []interval, wantPass bool, agg *aggregate) {
	for i := range ivA {
		for j := range ivB {
			c.record(ivA[i], ivB[j], wantPass, agg)
		}
	}
}

// classifyBinned evaluates pairs through a discrete time-bin index.
// Cohort B intervals are hashed into fixed-width bins; each cohort A
// interval only visits candidates sharing a bin. A qualifying pair
// intersects for at least minOverlapSec, so it always shares at least
// one bin with its counterpart, which makes this path return results
// identical to the exact path while skipping provably disjoint pairs.
func (c *Classifier) classifyBinned(ivA, ivB []interval, wantPass bool, agg *aggregate) {
	width := math.Max(c.minOverlapSec, c.tolSec)

	bins := make(map[int64][]int)
	for j := range ivB {
		for b := binOf(ivB[j].enter, width); b <= binOf(ivB[j].exit, width); b++ {
			bins[b] = append(bins[b], j)
		}
	}

	// seen stamps keep a candidate from being evaluated once per shared
	// bin; encounters must count each pair exactly once.
	seen := make([]int, len(ivB))
	for j := range seen {
		seen[j] = -1
	}

	for i := range ivA {
		for b := binOf(ivA[i].enter, width); b <= binOf(ivA[i].exit, width); b++ {
			for _, j := range bins[b] {
				if seen[j] == i {
					continue
				}
				seen[j] = i
				c.record(ivA[i], ivB[j], wantPass, agg)
			}
		}
	}
}

func binOf(t, width float64) int64 {
	return int64(math.Floor(t / width))
}

// occupancyOverlap returns the intersection, in seconds, of the two
// cohorts' zone occupancy spans, floored at zero.
func occupancyOverlap(ivA, ivB []interval) float64 {
	if len(ivA) == 0 || len(ivB) == 0 {
		return 0
	}
	firstA, lastA := span(ivA)
	firstB, lastB := span(ivB)
	ov := math.Min(lastA, lastB) - math.Max(firstA, firstB)
	return math.Max(0, ov)
}

func span(iv []interval) (first, last float64) {
	first, last = iv[0].enter, iv[0].exit
	for _, x := range iv[1:] {
		first = math.Min(first, x.enter)
		last = math.Max(last, x.exit)
	}
	return first, last
}

// sampleIDs returns up to n ids in deterministic display order: numeric
// when every id parses as an integer, lexicographic otherwise.
func sampleIDs(set map[string]struct{}, n int) []string {
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return idLess(ids[i], ids[j]) })
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

func idLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
