package overlap

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithMinOverlapSec sets the minimum interval intersection, in seconds,
// for a pair to count as co-present.
func WithMinOverlapSec(sec float64) Option {
	return func(c *Classifier) {
		if sec > 0 {
			c.minOverlapSec = sec
		}
	}
}

// WithToleranceSec sets the time-equality tolerance used by the
// crossing test.
func WithToleranceSec(tol float64) Option {
	return func(c *Classifier) {
		if tol > 0 {
			c.tolSec = tol
		}
	}
}

// WithSampleSize caps the per-event display samples.
func WithSampleSize(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.sampleSize = n
		}
	}
}

// WithSelector replaces the binning strategy selector.
func WithSelector(s *Selector) Option {
	return func(c *Classifier) {
		if s != nil {
			c.selector = s
		}
	}
}
