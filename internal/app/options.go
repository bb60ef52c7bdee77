package service

import (
	"github.com/runsight/crossover/internal/adapters/repository"
	"github.com/runsight/crossover/internal/domain/convergence"
	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataset sets the loaded dataset for analysis runs.
func WithDataset(ds model.Dataset) Option {
	return func(s *Service) {
		s.dataset = ds
	}
}

// WithWorkerCount sets the number of segment-analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the segment job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithStore injects a result store, replacing the default in-memory one.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithScanStepKM sets the convergence scan step.
func WithScanStepKM(step float64) Option {
	return func(s *Service) {
		if step > 0 {
			s.scanStepKM = step
		}
	}
}

// WithToleranceSec sets the arrival time-equality tolerance.
func WithToleranceSec(tol float64) Option {
	return func(s *Service) {
		if tol > 0 {
			s.toleranceSec = tol
		}
	}
}

// WithMinOverlapSec sets the co-presence minimum overlap duration.
func WithMinOverlapSec(sec float64) Option {
	return func(s *Service) {
		if sec > 0 {
			s.minOverlapSec = sec
		}
	}
}

// WithBinningThresholds sets the temporal (seconds) and spatial (km)
// thresholds above which the binned classifier path engages.
func WithBinningThresholds(temporalSec, spatialKM float64) Option {
	return func(s *Service) {
		if temporalSec > 0 {
			s.temporalBinSec = temporalSec
		}
		if spatialKM > 0 {
			s.spatialBinKM = spatialKM
		}
	}
}

// WithConflictBrackets replaces the segment-length brackets used to
// size conflict zones.
func WithConflictBrackets(brackets []convergence.Bracket) Option {
	return func(s *Service) {
		if len(brackets) > 0 {
			s.conflictBrackets = brackets
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
