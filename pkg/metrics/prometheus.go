// Package metrics provides Prometheus metrics for the crossover
// convergence service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Engine metrics: what the analysis actually did.
	segmentsProcessed   prometheus.Counter
	segmentsConverged   prometheus.Counter
	segmentsSkipped     *prometheus.CounterVec
	runsTotal           prometheus.Counter
	scanLatency         prometheus.Histogram
	pairsCompared       prometheus.Counter
	binnedEngagements   *prometheus.CounterVec
	clampEvents         *prometheus.CounterVec
	encountersPerRun    prometheus.Histogram

	// Queue metrics.
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Worker metrics.
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Repository metrics.
	storedRuns     prometheus.Gauge
	hotspotRecords prometheus.Gauge

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager backed by a custom registry so the default Go
// collectors do not pollute the scrape output.
var (
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton metrics registry
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton metrics manager
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// Registry returns the gatherer backing the global manager, for mounting
// the /metrics endpoint.
func Registry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "crossover",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}
	gaugeOpts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
		}
	}
	histOpts := func(name, help string) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      name,
			Help:      help,
			Buckets:   m.histogramBuckets,
		}
	}

	m.segmentsProcessed = prometheus.NewCounter(factory(
		"segments_processed_total", "Segment pairs processed."))
	m.segmentsConverged = prometheus.NewCounter(factory(
		"segments_with_convergence_total", "Segment pairs with a convergence point."))
	m.segmentsSkipped = prometheus.NewCounterVec(factory(
		"segments_skipped_total", "Segment pairs skipped, by reason."), []string{"reason"})
	m.runsTotal = prometheus.NewCounter(factory(
		"runs_total", "Analysis runs completed."))
	m.scanLatency = prometheus.NewHistogram(histOpts(
		"scan_latency_ms", "Per-segment convergence scan latency in milliseconds."))
	m.pairsCompared = prometheus.NewCounter(factory(
		"pairs_compared_total", "Runner pairs evaluated by the overlap classifier."))
	m.binnedEngagements = prometheus.NewCounterVec(factory(
		"binned_engagements_total", "Times the binned classifier path engaged, by kind."), []string{"kind"})
	m.clampEvents = prometheus.NewCounterVec(factory(
		"clamp_events_total", "Fraction clamp events, by reason."), []string{"reason"})
	m.encountersPerRun = prometheus.NewHistogram(histOpts(
		"encounters_per_run", "Unique encounter pairs per analysis run."))

	m.queueSize = prometheus.NewGauge(gaugeOpts(
		"queue_size", "Segment jobs currently queued."))
	m.queueCapacity = prometheus.NewGauge(gaugeOpts(
		"queue_capacity", "Configured queue capacity."))
	m.queueUtilization = prometheus.NewGauge(gaugeOpts(
		"queue_utilization", "Queue fill ratio, 0-1."))
	m.queueEnqueues = prometheus.NewCounter(factory(
		"queue_enqueues_total", "Segment jobs enqueued."))
	m.queueDequeues = prometheus.NewCounter(factory(
		"queue_dequeues_total", "Segment jobs dequeued."))
	m.queueEnqueueErrors = prometheus.NewCounterVec(factory(
		"queue_enqueue_errors_total", "Rejected enqueues, by cause."), []string{"cause"})

	m.workerCount = prometheus.NewGauge(gaugeOpts(
		"worker_count", "Workers in the analysis pool."))
	m.workerProcessingLatency = prometheus.NewHistogram(histOpts(
		"worker_processing_latency_ms", "Per-segment worker latency in milliseconds."))
	m.workerErrors = prometheus.NewCounter(factory(
		"worker_errors_total", "Worker processing errors."))

	m.storedRuns = prometheus.NewGauge(gaugeOpts(
		"stored_runs", "Analysis runs held by the repository."))
	m.hotspotRecords = prometheus.NewGauge(gaugeOpts(
		"hotspot_records", "Segments tracked by the hotspot index."))

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests, by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds, by endpoint.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint"})

	if !m.enabled {
		return
	}
	m.registry.MustRegister(
		m.segmentsProcessed, m.segmentsConverged, m.segmentsSkipped,
		m.runsTotal, m.scanLatency, m.pairsCompared, m.binnedEngagements,
		m.clampEvents, m.encountersPerRun,
		m.queueSize, m.queueCapacity, m.queueUtilization,
		m.queueEnqueues, m.queueDequeues, m.queueEnqueueErrors,
		m.workerCount, m.workerProcessingLatency, m.workerErrors,
		m.storedRuns, m.hotspotRecords,
		m.httpRequests, m.httpRequestDuration,
	)
}

// Package-level helpers against the global manager.

// RecordSegmentProcessed counts one processed segment pair.
func RecordSegmentProcessed() { globalManager.segmentsProcessed.Inc() }

// RecordSegmentConverged counts one segment with a convergence point.
func RecordSegmentConverged() { globalManager.segmentsConverged.Inc() }

// RecordSegmentSkipped counts one skipped segment pair.
func RecordSegmentSkipped(reason string) {
	globalManager.segmentsSkipped.WithLabelValues(reason).Inc()
}

// RecordRun counts one completed analysis run.
func RecordRun() { globalManager.runsTotal.Inc() }

// RecordScanLatency observes one convergence scan, in milliseconds.
func RecordScanLatency(ms float64) { globalManager.scanLatency.Observe(ms) }

// RecordPairsCompared adds n evaluated runner pairs.
func RecordPairsCompared(n int) { globalManager.pairsCompared.Add(float64(n)) }

// RecordBinnedEngaged counts one binned-path engagement of the given
// kind ("time" or "distance").
func RecordBinnedEngaged(kind string) {
	globalManager.binnedEngagements.WithLabelValues(kind).Inc()
}

// RecordClampEvent counts one fraction clamp.
func RecordClampEvent(reason string) {
	globalManager.clampEvents.WithLabelValues(reason).Inc()
}

// RecordEncountersPerRun observes the unique encounter total of a run.
func RecordEncountersPerRun(n int) {
	globalManager.encountersPerRun.Observe(float64(n))
}

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the configured queue capacity.
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

// UpdateQueueUtilization sets the queue fill ratio.
func UpdateQueueUtilization(u float64) { globalManager.queueUtilization.Set(u) }

// RecordQueueEnqueue counts one accepted enqueue.
func RecordQueueEnqueue() { globalManager.queueEnqueues.Inc() }

// RecordQueueDequeue counts one dequeue.
func RecordQueueDequeue() { globalManager.queueDequeues.Inc() }

// RecordQueueEnqueueError counts one rejected enqueue.
func RecordQueueEnqueueError(cause string) {
	globalManager.queueEnqueueErrors.WithLabelValues(cause).Inc()
}

// UpdateWorkerCount sets the worker pool size.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// RecordWorkerProcessingLatency observes one segment's worker latency.
func RecordWorkerProcessingLatency(ms float64) {
	globalManager.workerProcessingLatency.Observe(ms)
}

// RecordWorkerError counts one worker processing error.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// UpdateStoredRuns sets the repository run count.
func UpdateStoredRuns(n int) { globalManager.storedRuns.Set(float64(n)) }

// UpdateHotspotRecords sets the hotspot index size.
func UpdateHotspotRecords(n int) { globalManager.hotspotRecords.Set(float64(n)) }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request latency.
func RecordHTTPRequestDuration(endpoint string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint).Observe(ms)
}
