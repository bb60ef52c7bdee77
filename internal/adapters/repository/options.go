// Package repository defines the analysis result store and errors.
package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithMaxRuns bounds how many runs are retained; older runs are evicted
// first. The hotspot index always reflects the latest run regardless.
func WithMaxRuns(n int) Option {
	return func(s *TreapStore) {
		if n > 0 {
			s.maxRuns = n
		}
	}
}
