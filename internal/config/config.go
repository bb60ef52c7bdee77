// Package config defines service configuration structures and loading.
//
// Conventions:
// - Defaults come from New; Load layers an optional YAML file and env vars.
// - External errors are wrapped via this package's sentinels.
package config

import (
	"runtime"
)

// Config contains process configuration for one analysis service.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RunnersFile points at the CSV roster of all events.
	RunnersFile string `koanf:"runners_file"`

	// CourseFile points at the YAML course plan: event start times plus
	// segment pair specs.
	CourseFile string `koanf:"course_file"`

	// WorkerCount sets the number of segment-analysis workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory segment job queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the loader's duplicate-roster-row cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ScanStepKM is the convergence scan step.
	ScanStepKM float64 `koanf:"scan_step_km"`

	// TimeToleranceSec is the arrival time-equality tolerance (2-5 s band).
	TimeToleranceSec float64 `koanf:"time_tolerance_sec"`

	// MinOverlapSec is the minimum interval intersection for co-presence.
	MinOverlapSec float64 `koanf:"min_overlap_sec"`

	// TemporalBinThresholdMin switches to time binning above this
	// overlap window, in minutes.
	TemporalBinThresholdMin float64 `koanf:"temporal_bin_threshold_min"`

	// SpatialBinThresholdM switches to distance binning above this
	// conflict zone length, in meters.
	SpatialBinThresholdM float64 `koanf:"spatial_bin_threshold_m"`

	// MaxHotspotLimit caps GET /hotspots?limit.
	MaxHotspotLimit int `koanf:"max_hotspot_limit"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		Addr:                    ":9090",
		RunnersFile:             "data/runners.csv",
		CourseFile:              "data/course.yaml",
		WorkerCount:             runtime.NumCPU(),
		QueueSize:               10_000,
		DedupeSize:              500_000,
		ScanStepKM:              0.01,
		TimeToleranceSec:        3.0,
		MinOverlapSec:           5.0,
		TemporalBinThresholdMin: 10.0,
		SpatialBinThresholdM:    100.0,
		MaxHotspotLimit:         100,
	}
}
