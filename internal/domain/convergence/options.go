// Package convergence locates the first temporal intersection of two
// cohorts on a shared segment and sizes the analysis zone around it.
package convergence

// Option applies a configuration option to the Locator.
type Option func(*Locator)

// WithStepKM sets the scan step in km.
func WithStepKM(step float64) Option {
	return func(l *Locator) {
		if step > 0 {
			l.stepKM = step
		}
	}
}

// WithToleranceSec sets the time-equality tolerance in seconds.
func WithToleranceSec(tol float64) Option {
	return func(l *Locator) {
		if tol > 0 {
			l.tolSec = tol
		}
	}
}

// SizerOption applies a configuration option to the Sizer.
type SizerOption func(*Sizer)

// WithBrackets replaces the segment-length brackets used to pick the
// conflict length. Brackets must be sorted by ascending UpToKM.
func WithBrackets(brackets []Bracket) SizerOption {
	return func(s *Sizer) {
		if len(brackets) > 0 {
			s.brackets = brackets
		}
	}
}
