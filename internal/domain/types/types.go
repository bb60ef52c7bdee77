// Package types contains read-side shapes shared with the API layer.
package types

// Hotspot is one segment ranked by how much cross-event contact it
// produced in the latest analysis run.
type Hotspot struct {
	Rank         int    `json:"rank"`
	SegmentID    string `json:"segment_id"`
	Label        string `json:"label"`
	Participants int    `json:"participants_involved"`
	Encounters   int    `json:"unique_encounters"`
}
