// Command synth-race exercises the convergence engine against a
// generated race and cross-checks every result with a brute-force
// reference.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/runsight/crossover/internal/synthload"
	"github.com/runsight/crossover/pkg/logger"
)

func main() {
	cfg := synthload.DefaultConfig()

	runners := flag.Int("runners", cfg.RunnersPerEvent, "runners per event")
	segments := flag.Int("segments", cfg.SegmentCount, "segment pairs to generate")
	seed := flag.Int64("seed", cfg.Seed, "generator seed")
	workers := flag.Int("workers", runtime.NumCPU(), "analysis workers")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	help := flag.Bool("help", false, "show help")
	flag.Parse()

	if *help {
		synthload.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.RunnersPerEvent = *runners
	cfg.SegmentCount = *segments
	cfg.Seed = *seed

	res, err := synthload.Run(ctx, cfg, *workers)
	if err != nil {
		logger.Get().Error(ctx, "synthetic load failed", logger.Error(err))
		os.Exit(1)
	}

	if err := synthload.WriteReport(os.Stdout, res, synthload.GenerateDataset(cfg)); err != nil {
		logger.Get().Error(ctx, "writing report failed", logger.Error(err))
		os.Exit(1)
	}
	if !res.OK() {
		os.Exit(1)
	}
}
