// Package service provides the segment orchestrator: it drives the
// convergence engine over every segment pair of a dataset and reduces
// the per-segment results into run-level totals.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	segmentqueue "github.com/runsight/crossover/internal/adapters/mq/queue"
	workerpool "github.com/runsight/crossover/internal/adapters/mq/worker"
	"github.com/runsight/crossover/internal/adapters/repository"
	"github.com/runsight/crossover/internal/domain/axis"
	"github.com/runsight/crossover/internal/domain/convergence"
	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/internal/domain/overlap"
	"github.com/runsight/crossover/internal/domain/pacing"
	"github.com/runsight/crossover/internal/domain/types"
	"github.com/runsight/crossover/pkg/logger"
	"github.com/runsight/crossover/pkg/metrics"
)

// engine bundles the per-segment analysis pipeline. Each call is
// self-contained and safe to run concurrently across segments: the
// dataset is read-only and every result is produced independently.
type engine struct {
	dataset    model.Dataset
	model      *pacing.Model
	locator    *convergence.Locator
	sizer      *convergence.Sizer
	classifier *overlap.Classifier
}

// AnalyzeSegment runs locate -> size -> classify for one segment pair.
// Per-segment problems become skip reasons on the result; nothing here
// can abort a run.
func (e *engine) AnalyzeSegment(_ context.Context, spec model.SegmentPairSpec) model.SegmentResult {
	res := model.SegmentResult{
		SegmentID: spec.SegmentID,
		Label:     spec.Label,
		EventA:    spec.EventA,
		EventB:    spec.EventB,
	}

	if spec.WindowA() <= 0 || spec.WindowB() <= 0 {
		res.SkipReason = model.SkipInvalidWindow
		metrics.RecordSegmentSkipped(string(res.SkipReason))
		return res
	}
	if !e.model.HasStart(spec.EventA) || !e.model.HasStart(spec.EventB) {
		res.SkipReason = model.SkipMissingStart
		metrics.RecordSegmentSkipped(string(res.SkipReason))
		return res
	}

	mapper, err := axis.NewMapper(spec.FromKMA, spec.ToKMA, spec.FromKMB, spec.ToKMB)
	if err != nil {
		// Unreachable after the window check, kept as a terminal skip.
		res.SkipReason = model.SkipInvalidWindow
		metrics.RecordSegmentSkipped(string(res.SkipReason))
		return res
	}

	cohortA := e.dataset.Cohort(spec.EventA)
	cohortB := e.dataset.Cohort(spec.EventB)

	scanStart := time.Now()
	cp := e.locator.Find(cohortA, cohortB, mapper, spec.FromKMA, spec.ToKMA)
	metrics.RecordScanLatency(float64(time.Since(scanStart).Milliseconds()))
	metrics.RecordSegmentProcessed()

	if cp == nil {
		// A normal outcome, not an error: empty cohorts and
		// well-separated start times both land here.
		return res
	}

	res.HasConvergence = true
	res.Convergence = cp
	metrics.RecordSegmentConverged()

	zone, clamps := e.sizer.Size(*cp, mapper, spec.FromKMA, spec.ToKMA)
	res.Zone = &zone
	for _, reason := range clamps {
		metrics.RecordClampEvent(string(reason))
		res.ClampEvents = append(res.ClampEvents, string(reason))
	}

	res.Overlap = e.classifier.Classify(spec, cohortA, cohortB, zone)
	metrics.RecordPairsCompared(len(cohortA) * len(cohortB))
	if res.Overlap.TimeBinned {
		metrics.RecordBinnedEngaged("time")
	}
	if res.Overlap.DistanceBinned {
		metrics.RecordBinnedEngaged("distance")
	}
	return res
}

// Service implements the API dependencies for the convergence system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	queue  *segmentqueue.InMemoryQueue
	pool   *workerpool.Pool
	engine *engine

	// Configuration
	dataset          model.Dataset
	workerCount      int
	queueSize        int
	scanStepKM       float64
	toleranceSec     float64
	minOverlapSec    float64
	temporalBinSec   float64
	spatialBinKM     float64
	conflictBrackets []convergence.Bracket

	// State
	started bool

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU(),
		queueSize:      10_000,
		scanStepKM:     convergence.DefaultStepKM,
		toleranceSec:   convergence.DefaultToleranceSec,
		minOverlapSec:  overlap.DefaultMinOverlapSec,
		temporalBinSec: overlap.DefaultTemporalThresholdSec,
		spatialBinKM:   overlap.DefaultSpatialThresholdKM,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting convergence service",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("segments", len(s.dataset.Segments)),
	)

	if s.store == nil {
		s.store = repository.NewTreapStore(ctx)
	}

	arrival := pacing.New(s.dataset.Starts)
	var sizerOpts []convergence.SizerOption
	if len(s.conflictBrackets) > 0 {
		sizerOpts = append(sizerOpts, convergence.WithBrackets(s.conflictBrackets))
	}
	s.engine = &engine{
		dataset: s.dataset,
		model:   arrival,
		locator: convergence.NewLocator(arrival,
			convergence.WithStepKM(s.scanStepKM),
			convergence.WithToleranceSec(s.toleranceSec),
		),
		sizer: convergence.NewSizer(sizerOpts...),
		classifier: overlap.NewClassifier(arrival,
			overlap.WithMinOverlapSec(s.minOverlapSec),
			overlap.WithToleranceSec(s.toleranceSec),
			overlap.WithSelector(overlap.NewSelector(
				overlap.WithTemporalThresholdSec(s.temporalBinSec),
				overlap.WithSpatialThresholdKM(s.spatialBinKM),
			)),
		),
	}

	s.queue = segmentqueue.NewInMemoryQueue(segmentqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.engine)
	s.pool.Start(ctx)

	s.started = true
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping convergence service")
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	s.started = false
}

// Analyze runs the full analysis over the loaded dataset: every segment
// pair is dispatched to the worker pool, and the run summary is reduced
// from the independently produced per-segment results.
func (s *Service) Analyze(ctx context.Context) (model.RunResult, error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return model.RunResult{}, ErrNotStarted
	}

	segments := s.dataset.Segments
	run := model.RunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	// Buffered to the full segment count so neither workers nor the
	// inline fallback can block on delivery.
	results := make(chan model.SegmentResult, len(segments))
	for _, spec := range segments {
		job := segmentqueue.Job{RunID: run.RunID, Spec: spec, Results: results}
		if !s.queue.Enqueue(ctx, job) {
			// Backpressure: analyze inline rather than dropping the
			// segment, so the run stays complete.
			s.logger.Warn(ctx, "queue full, analyzing segment inline",
				logger.String("segment_id", spec.SegmentID))
			results <- s.engine.AnalyzeSegment(ctx, spec)
		}
	}

	collected := make([]model.SegmentResult, 0, len(segments))
	for len(collected) < len(segments) {
		select {
		case res := <-results:
			collected = append(collected, res)
		case <-ctx.Done():
			return model.RunResult{}, fmt.Errorf("analysis cancelled: %w", ctx.Err())
		}
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].SegmentID < collected[j].SegmentID
	})
	run.Segments = collected
	run.Summary = reduce(collected)
	run.FinishedAt = time.Now().UTC()

	if err := s.store.PutRun(ctx, run); err != nil {
		return model.RunResult{}, fmt.Errorf("storing run: %w", err)
	}

	metrics.RecordRun()
	metrics.RecordEncountersPerRun(totalEncounters(collected))

	s.logger.Info(ctx, "analysis run complete",
		logger.String("run_id", run.RunID),
		logger.Int("segments_processed", run.Summary.SegmentsProcessed),
		logger.Int("segments_with_convergence", run.Summary.SegmentsWithConvergence),
		logger.Int("segments_skipped", run.Summary.SegmentsSkipped),
	)
	return run, nil
}

// reduce folds per-segment results into run totals.
func reduce(results []model.SegmentResult) model.RunSummary {
	var sum model.RunSummary
	for _, r := range results {
		if r.SkipReason != model.SkipNone {
			sum.SegmentsSkipped++
			continue
		}
		sum.SegmentsProcessed++
		if r.HasConvergence {
			sum.SegmentsWithConvergence++
		}
	}
	return sum
}

func totalEncounters(results []model.SegmentResult) int {
	total := 0
	for _, r := range results {
		total += r.Overlap.UniqueEncounters
	}
	return total
}

// GetRun returns a stored run by id.
func (s *Service) GetRun(ctx context.Context, runID string) (model.RunResult, error) {
	return s.store.GetRun(ctx, runID)
}

// LatestRun returns the most recent run.
func (s *Service) LatestRun(ctx context.Context) (model.RunResult, error) {
	return s.store.LatestRun(ctx)
}

// TopHotspots returns the busiest segments of the latest run.
func (s *Service) TopHotspots(ctx context.Context, n int) ([]types.Hotspot, error) {
	return s.store.TopHotspots(ctx, n)
}

// HotspotRank returns the hotspot entry for one segment.
func (s *Service) HotspotRank(ctx context.Context, segmentID string) (types.Hotspot, error) {
	return s.store.HotspotRank(ctx, segmentID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"worker_count": s.workerCount,
		"queue_size":   s.queueSize,
		"events":       len(s.dataset.Runners),
		"segments":     len(s.dataset.Segments),
	}
	if s.started {
		stats["queue_length"] = s.queue.Len(context.Background())
		stats["stored_runs"] = s.store.Count(context.Background())
	}
	return stats
}
