package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/runsight/crossover/internal/adapters/http/api"
	"github.com/runsight/crossover/internal/adapters/loader"
	service "github.com/runsight/crossover/internal/app"
	"github.com/runsight/crossover/internal/config"
	"github.com/runsight/crossover/internal/domain/dedupe"
	"github.com/runsight/crossover/pkg/logger"
	"github.com/runsight/crossover/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
	minutesToSeconds       = 60.0
	metersToKM             = 1.0 / 1000.0
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Load the roster and course plan once at startup.
	deduper := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(cfg.DedupeSize))
	ds, err := loader.New(deduper).LoadDataset(ctx, cfg.RunnersFile, cfg.CourseFile)
	if err != nil {
		log.Error(ctx, "failed to load dataset", logger.Error(err))
		return
	}
	log.Info(ctx, "dataset loaded",
		logger.Int("events", len(ds.Runners)),
		logger.Int("segments", len(ds.Segments)),
	)

	svc := service.New(
		service.WithLogger(log),
		service.WithDataset(ds),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithScanStepKM(cfg.ScanStepKM),
		service.WithToleranceSec(cfg.TimeToleranceSec),
		service.WithMinOverlapSec(cfg.MinOverlapSec),
		service.WithBinningThresholds(
			cfg.TemporalBinThresholdMin*minutesToSeconds,
			cfg.SpatialBinThresholdM*metersToKM,
		),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go startServiceMetricsUpdater(ctx, svc)

	// Analyze once at startup so read endpoints have data immediately.
	if run, err := svc.Analyze(ctx); err != nil {
		log.Error(ctx, "initial analysis failed", logger.Error(err))
	} else {
		log.Info(ctx, "initial analysis stored", logger.String("run_id", run.RunID))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	apiServer := api.NewServer(svc, svc, cfg.MaxHotspotLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// startServiceMetricsUpdater periodically mirrors service stats into
// the Prometheus gauges.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()
	if queueLen, ok := stats["queue_length"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}
	if storedRuns, ok := stats["stored_runs"].(int); ok {
		metrics.UpdateStoredRuns(storedRuns)
	}
	if workerCount, ok := stats["worker_count"].(int); ok {
		metrics.UpdateWorkerCount(workerCount)
	}
}
