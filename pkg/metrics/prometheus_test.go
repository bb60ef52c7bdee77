package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/runsight/crossover/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		reg := prometheus.NewRegistry()

		Convey("When constructed with options", func() {
			m := metrics.NewManager(
				metrics.WithNamespace("testns"),
				metrics.WithSubsystem("engine"),
				metrics.WithRegistry(reg),
			)
			So(m, ShouldNotBeNil)

			Convey("Then the collectors are registered and gatherable", func() {
				families, err := reg.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeEmpty)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		So(metrics.Registry(), ShouldNotBeNil)

		Convey("When recording through the package helpers", func() {
			So(func() {
				metrics.RecordSegmentProcessed()
				metrics.RecordSegmentConverged()
				metrics.RecordSegmentSkipped("invalid_window")
				metrics.RecordRun()
				metrics.RecordScanLatency(12)
				metrics.RecordPairsCompared(400)
				metrics.RecordBinnedEngaged("time")
				metrics.RecordClampEvent("negative")
				metrics.RecordEncountersPerRun(7)
				metrics.UpdateQueueSize(3)
				metrics.UpdateQueueCapacity(100)
				metrics.UpdateQueueUtilization(0.03)
				metrics.RecordQueueEnqueue()
				metrics.RecordQueueDequeue()
				metrics.RecordQueueEnqueueError("queue_full")
				metrics.UpdateWorkerCount(4)
				metrics.RecordWorkerProcessingLatency(2)
				metrics.RecordWorkerError()
				metrics.UpdateStoredRuns(1)
				metrics.UpdateHotspotRecords(5)
				metrics.RecordHTTPRequest("runs", "POST", "201")
				metrics.RecordHTTPRequestDuration("runs", 4)
			}, ShouldNotPanic)

			Convey("Then the recorded series are visible in a scrape", func() {
				families, err := metrics.Registry().Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["crossover_engine_segments_processed_total"], ShouldBeTrue)
				So(names["crossover_engine_runs_total"], ShouldBeTrue)
				So(names["crossover_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}
