// Package repository defines the analysis result store and errors.
package repository

import (
	"context"

	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/internal/domain/types"
)

// Store provides read/write access to analysis results.
type Store interface {
	// PutRun stores a completed run and refreshes the hotspot index
	// from its per-segment results.
	PutRun(ctx context.Context, run model.RunResult) error

	// GetRun returns a stored run by id. Returns ErrNotFound when the
	// run is unknown.
	GetRun(ctx context.Context, runID string) (model.RunResult, error)

	// LatestRun returns the most recently stored run.
	LatestRun(ctx context.Context) (model.RunResult, error)

	// TopHotspots returns the top-N segments by participants involved.
	TopHotspots(ctx context.Context, n int) ([]types.Hotspot, error)

	// HotspotRank returns the rank entry for one segment.
	HotspotRank(ctx context.Context, segmentID string) (types.Hotspot, error)

	// Count returns the number of stored runs.
	Count(ctx context.Context) int
}
