// Package worker runs the segment analysis pool. Each worker produces a
// self-contained SegmentResult per job; run totals are reduced by the
// consumer of the results channel, never via shared counters, so the
// pool is safe to scale by construction.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/runsight/crossover/internal/adapters/mq/queue"
	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/pkg/logger"
	"github.com/runsight/crossover/pkg/metrics"
)

// Shutdown timeouts.
const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Analyzer runs the convergence engine over one segment pair.
type Analyzer interface {
	AnalyzeSegment(ctx context.Context, spec model.SegmentPairSpec) model.SegmentResult
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes segment jobs off the queue until stopped.
type Worker struct {
	queue    Queue
	analyzer Analyzer
	name     string

	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(q Queue, analyzer Analyzer, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		analyzer: analyzer,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the worker loop until ctx is canceled or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.processJob(ctx, job)
		}
	}
}

// Shutdown stops the worker, waiting for in-flight work to finish.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.String("worker", w.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob analyzes one segment and delivers the result. Analysis
// itself cannot fail: the engine converts every per-segment problem
// into a skip reason on the result.
func (w *Worker) processJob(ctx context.Context, job queue.Job) {
	start := time.Now()
	result := w.analyzer.AnalyzeSegment(ctx, job.Spec)
	metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))

	select {
	case job.Results <- result:
	case <-ctx.Done():
		metrics.RecordWorkerError()
		w.logger.Warn(ctx, "dropping result for cancelled run",
			logger.String("run_id", job.RunID),
			logger.String("segment_id", job.Spec.SegmentID),
		)
	}
}

// Pool manages a fixed set of workers over one queue.
type Pool struct {
	workers  []*Worker
	queue    Queue
	analyzer Analyzer

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A non-positive count
// falls back to the number of CPUs.
func NewPool(workerCount int, q Queue, analyzer Analyzer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers:  make([]*Worker, workerCount),
		queue:    q,
		analyzer: analyzer,
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(q, analyzer, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop stops all workers, bounding the wait per worker.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.stopOnce.Do(func() { close(w.shutdown) })
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and waits for all workers to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
