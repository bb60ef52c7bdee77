// Package model contains domain entities passed between layers.
package model

import "time"

// FlowType describes how two events share a physical segment.
type FlowType string

// Known flow types. Overtaking is only meaningful for FlowOvertake;
// merge/diverge segments report co-presence only.
const (
	FlowOvertake FlowType = "overtake"
	FlowMerge    FlowType = "merge"
	FlowDiverge  FlowType = "diverge"
)

// RunnerRecord is one runner of one event. Records are immutable and
// loaded once per analysis run.
type RunnerRecord struct {
	Event          string  // start-time cohort this runner belongs to
	RunnerID       string  // unique within the event
	PaceSecPerKM   float64 // static pace assumption
	StartOffsetSec float64 // delay behind the event gun, seconds
}

// StartTimes maps an event name to its absolute start, in minutes since
// midnight. Process-wide constant for one analysis run.
type StartTimes map[string]float64

// SegmentPairSpec describes one shared course stretch as seen by two
// events. The two km windows measure the same physical ground on each
// event's own ruler, so they may differ in both offset and length.
type SegmentPairSpec struct {
	SegmentID string
	Label     string
	EventA    string
	EventB    string
	FromKMA   float64
	ToKMA     float64
	FromKMB   float64
	ToKMB     float64
	Flow      FlowType
	Overtake  bool // overtake_flag from the course plan
}

// WindowA returns the length of the segment window on event A's ruler.
func (s SegmentPairSpec) WindowA() float64 { return s.ToKMA - s.FromKMA }

// WindowB returns the length of the segment window on event B's ruler.
func (s SegmentPairSpec) WindowB() float64 { return s.ToKMB - s.FromKMB }

// ConvergencePoint is the first km (event A's ruler) where any runner
// pair of the two cohorts is predicted co-located in time, plus its
// projection onto event B's ruler.
type ConvergencePoint struct {
	KMA float64 `json:"km_a"`
	KMB float64 `json:"km_b"`
}

// ConflictZone is the analysis window around a convergence point,
// expressed in both rulers and always clipped to the segment bounds.
type ConflictZone struct {
	FromKMA float64 `json:"from_km_a"`
	ToKMA   float64 `json:"to_km_a"`
	FromKMB float64 `json:"from_km_b"`
	ToKMB   float64 `json:"to_km_b"`
}

// LengthA returns the zone length on event A's ruler, in km.
func (z ConflictZone) LengthA() float64 { return z.ToKMA - z.FromKMA }

// OverlapResult holds the pairwise overlap statistics for one conflict
// zone. All counts are unique-runner counts with set semantics, so they
// are independent of input iteration order.
type OverlapResult struct {
	OvertakingA          int      `json:"overtaking_a"`
	OvertakingB          int      `json:"overtaking_b"`
	CopresenceA          int      `json:"copresence_a"`
	CopresenceB          int      `json:"copresence_b"`
	UniqueEncounters     int      `json:"unique_encounters"`
	ParticipantsInvolved int      `json:"participants_involved"`
	SampleA              []string `json:"sample_a,omitempty"`
	SampleB              []string `json:"sample_b,omitempty"`
	TimeBinned           bool     `json:"time_binned"`
	DistanceBinned       bool     `json:"distance_binned"`
}

// SkipReason explains why a segment pair was not processed.
type SkipReason string

// Skip reasons recorded on SegmentResult. Skips are terminal for the
// segment and never abort the run.
const (
	SkipNone          SkipReason = ""
	SkipInvalidWindow SkipReason = "invalid_window"
	SkipMissingStart  SkipReason = "missing_start_time"
)

// SegmentResult is the self-contained outcome for one segment pair.
type SegmentResult struct {
	SegmentID      string            `json:"segment_id"`
	Label          string            `json:"label"`
	EventA         string            `json:"event_a"`
	EventB         string            `json:"event_b"`
	HasConvergence bool              `json:"has_convergence"`
	SkipReason     SkipReason        `json:"skip_reason,omitempty"`
	Convergence    *ConvergencePoint `json:"convergence_point,omitempty"`
	Zone           *ConflictZone     `json:"conflict_zone,omitempty"`
	Overlap        OverlapResult     `json:"overlap"`
	ClampEvents    []string          `json:"clamp_events,omitempty"`
}

// RunSummary aggregates run-level totals. It is always computed as a
// reduction over per-segment results, never via shared counters.
type RunSummary struct {
	SegmentsProcessed       int `json:"segments_processed"`
	SegmentsWithConvergence int `json:"segments_with_convergence"`
	SegmentsSkipped         int `json:"segments_skipped"`
}

// RunResult is the full outcome of one analysis run. Segments are
// ordered by SegmentID for stable output.
type RunResult struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Segments   []SegmentResult `json:"segments"`
	Summary    RunSummary      `json:"summary"`
}

// Dataset bundles the loaded inputs for one analysis run.
type Dataset struct {
	Runners  map[string][]RunnerRecord // event -> cohort
	Starts   StartTimes
	Segments []SegmentPairSpec
}

// Cohort returns the runners of the named event, which may be empty
// before an event has published its roster.
func (d Dataset) Cohort(event string) []RunnerRecord {
	return d.Runners[event]
}
