// Package axis translates km positions between two events' rulers over a
// shared physical segment via a normalized local fraction.
package axis

import "errors"

// Reason tags a fraction that had to be clamped into [0,1].
type Reason string

// Clamp reasons. ReasonNone means the value passed through unchanged.
const (
	ReasonNone       Reason = ""
	ReasonNegative   Reason = "negative"
	ReasonExceedsOne Reason = "exceeds_one"
)

// ErrDegenerateWindow is returned when either window has non-positive
// length. Mapping over such a window is undefined and the segment pair
// must be skipped.
var ErrDegenerateWindow = errors.New("degenerate segment window")

// Clamp bounds x to [0,1]. The reason is non-empty only when clamping
// actually altered the value. Never fails for any real input.
func Clamp(x float64) (float64, Reason) {
	switch {
	case x < 0:
		return 0, ReasonNegative
	case x > 1:
		return 1, ReasonExceedsOne
	default:
		return x, ReasonNone
	}
}

// Mapper projects positions from event A's ruler onto event B's ruler
// for one shared segment. Both windows are validated at construction,
// so mapping methods cannot fail.
type Mapper struct {
	fromA, toA float64
	fromB, toB float64
}

// NewMapper builds a mapper for the given windows. Returns
// ErrDegenerateWindow if either window length is not strictly positive.
func NewMapper(fromA, toA, fromB, toB float64) (*Mapper, error) {
	if toA-fromA <= 0 || toB-fromB <= 0 {
		return nil, ErrDegenerateWindow
	}
	return &Mapper{fromA: fromA, toA: toA, fromB: fromB, toB: toB}, nil
}

// Fraction returns the clamped local fraction of kmA within window A.
func (m *Mapper) Fraction(kmA float64) (float64, Reason) {
	return Clamp((kmA - m.fromA) / (m.toA - m.fromA))
}

// AToB maps a km position on event A's ruler to the equivalent position
// on event B's ruler. The returned reason reports whether the local
// fraction had to be clamped (a floating-point guard near segment
// boundaries, recorded for audit).
func (m *Mapper) AToB(kmA float64) (float64, Reason) {
	s, reason := m.Fraction(kmA)
	return m.fromB + s*(m.toB-m.fromB), reason
}
