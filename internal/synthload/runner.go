package synthload

import (
	"context"
	"fmt"
	"io"
	"time"

	service "github.com/runsight/crossover/internal/app"
	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/internal/report"
	"github.com/runsight/crossover/pkg/logger"
)

// Result summarizes one synthetic load exercise.
type Result struct {
	Run        model.RunResult
	Elapsed    time.Duration
	Mismatches []string
	Repeatable bool
}

// OK reports whether the engine matched the reference and repeated runs
// were equivalent.
func (r Result) OK() bool {
	return len(r.Mismatches) == 0 && r.Repeatable
}

// Run generates a synthetic dataset, analyzes it twice through a full
// service, and cross-checks the first run against the brute-force
// reference.
func Run(ctx context.Context, cfg Config, workers int) (Result, error) {
	ds := GenerateDataset(cfg)
	log := logger.Named("synthload")

	svc := service.New(
		service.WithDataset(ds),
		service.WithWorkerCount(workers),
		service.WithLogger(log),
	)
	if err := svc.Start(ctx); err != nil {
		return Result{}, fmt.Errorf("starting service: %w", err)
	}
	defer svc.Stop()

	started := time.Now()
	first, err := svc.Analyze(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("first analysis: %w", err)
	}
	elapsed := time.Since(started)

	second, err := svc.Analyze(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("second analysis: %w", err)
	}

	res := Result{
		Run:        first,
		Elapsed:    elapsed,
		Mismatches: VerifyRun(ds, first, DefaultParams()),
		Repeatable: RunsEquivalent(first, second),
	}

	log.Info(ctx, "synthetic load complete",
		logger.Int("runners_per_event", cfg.RunnersPerEvent),
		logger.Int("segments", cfg.SegmentCount),
		logger.Int("mismatches", len(res.Mismatches)),
		logger.Bool("repeatable", res.Repeatable),
		logger.String("elapsed", elapsed.String()),
	)
	return res, nil
}

// WriteReport renders the exercise outcome, including the standard
// Markdown run report, to w.
func WriteReport(w io.Writer, res Result, ds model.Dataset) error {
	fmt.Fprintf(w, "synthetic load: %d segments in %s\n", len(res.Run.Segments), res.Elapsed)
	if res.Repeatable {
		fmt.Fprintln(w, "repeatability: identical results across runs")
	} else {
		fmt.Fprintln(w, "repeatability: FAILED, runs differ")
	}
	if len(res.Mismatches) == 0 {
		fmt.Fprintln(w, "reference check: all segments match")
	} else {
		fmt.Fprintf(w, "reference check: %d mismatches\n", len(res.Mismatches))
		for _, m := range res.Mismatches {
			fmt.Fprintf(w, "  - %s\n", m)
		}
	}
	fmt.Fprintln(w)
	return report.WriteMarkdown(w, res.Run, ds)
}
