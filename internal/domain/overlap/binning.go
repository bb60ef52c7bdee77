package overlap

// Default binning thresholds.
const (
	DefaultTemporalThresholdSec = 600 // 10 min
	DefaultSpatialThresholdKM   = 0.1 // 100 m
)

// Mode records how pairwise overlap is computed for one zone. The two
// decisions combine freely; either flag switches the classifier to the
// bin-indexed path.
type Mode struct {
	TimeBinned     bool
	DistanceBinned bool
}

// Binned reports whether the bin-indexed path is engaged.
func (m Mode) Binned() bool { return m.TimeBinned || m.DistanceBinned }

// Selector chooses exact pairwise computation vs bin-indexed
// aggregation based on the size of the overlap window and the conflict
// zone. Exact O(|A|x|B|) is fine for small cohorts but must degrade
// gracefully as either dimension grows.
type Selector struct {
	temporalSec float64
	spatialKM   float64
}

// SelectorOption applies a configuration option to the Selector.
type SelectorOption func(*Selector)

// WithTemporalThresholdSec sets the overlap-window duration above which
// time binning engages.
func WithTemporalThresholdSec(sec float64) SelectorOption {
	return func(s *Selector) {
		if sec > 0 {
			s.temporalSec = sec
		}
	}
}

// WithSpatialThresholdKM sets the conflict-zone length above which
// distance binning engages.
func WithSpatialThresholdKM(km float64) SelectorOption {
	return func(s *Selector) {
		if km > 0 {
			s.spatialKM = km
		}
	}
}

// NewSelector builds a selector with the default thresholds.
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		temporalSec: DefaultTemporalThresholdSec,
		spatialKM:   DefaultSpatialThresholdKM,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select decides the computation mode for a zone. overlapWindowSec is
// the intersection of the two cohorts' zone occupancy spans; zoneLenKM
// is the zone length on event A's ruler.
func (s *Selector) Select(overlapWindowSec, zoneLenKM float64) Mode {
	const eps = 1e-9
	return Mode{
		TimeBinned:     overlapWindowSec > s.temporalSec+eps,
		DistanceBinned: zoneLenKM > s.spatialKM+eps,
	}
}
