package convergence

import (
	"math"

	"github.com/runsight/crossover/internal/domain/axis"
	"github.com/runsight/crossover/internal/domain/model"
)

// Bracket maps a segment window length to the physical conflict length
// used around a convergence point on segments up to UpToKM long.
type Bracket struct {
	UpToKM       float64
	ConflictLenM float64
}

// Default conflict-length brackets: short segments get the 100 m zone,
// mid-length segments 150 m, anything longer 200 m.
var defaultBrackets = []Bracket{
	{UpToKM: 2.0, ConflictLenM: 100},
	{UpToKM: 5.0, ConflictLenM: 150},
	{UpToKM: math.Inf(1), ConflictLenM: 200},
}

// Sizer expands a fixed physical length symmetrically around a
// convergence point, clipped to the segment bounds, and projects the
// clipped zone into event B's ruler so both rulers stay consistent even
// under asymmetric clipping at a boundary.
type Sizer struct {
	brackets []Bracket
}

// NewSizer builds a sizer with the default segment-length brackets.
func NewSizer(opts ...SizerOption) *Sizer {
	s := &Sizer{brackets: defaultBrackets}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ConflictLenM returns the conflict length in meters for a segment
// window of the given length in km.
func (s *Sizer) ConflictLenM(windowKM float64) float64 {
	for _, b := range s.brackets {
		if windowKM <= b.UpToKM {
			return b.ConflictLenM
		}
	}
	return s.brackets[len(s.brackets)-1].ConflictLenM
}

// Size builds the conflict zone around cp within [fromA, toA]. The
// returned zone always satisfies ToKM >= FromKM in both rulers. Clamp
// reasons produced while re-projecting the clipped bounds are returned
// for audit.
func (s *Sizer) Size(cp model.ConvergencePoint, mapper *axis.Mapper, fromA, toA float64) (model.ConflictZone, []axis.Reason) {
	halfKM := s.ConflictLenM(toA-fromA) / 1000 / 2

	zFromA := math.Max(fromA, cp.KMA-halfKM)
	zToA := math.Min(toA, cp.KMA+halfKM)

	// Re-derive local fractions for the clipped bounds rather than
	// shifting the B window by a fixed offset, so asymmetric clipping
	// keeps the two rulers aligned on the same physical stretch.
	zFromB, rFrom := mapper.AToB(zFromA)
	zToB, rTo := mapper.AToB(zToA)

	var reasons []axis.Reason
	if rFrom != axis.ReasonNone {
		reasons = append(reasons, rFrom)
	}
	if rTo != axis.ReasonNone {
		reasons = append(reasons, rTo)
	}

	return model.ConflictZone{
		FromKMA: zFromA,
		ToKMA:   zToA,
		FromKMB: zFromB,
		ToKMB:   zToB,
	}, reasons
}
