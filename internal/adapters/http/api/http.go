// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/runsight/crossover/internal/domain/model"
	"github.com/runsight/crossover/internal/domain/types"
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Analyze triggers a full analysis run over the loaded dataset.
	Analyze(ctx context.Context) (model.RunResult, error)

	// Read operations over stored results.
	GetRun(ctx context.Context, runID string) (model.RunResult, error)
	LatestRun(ctx context.Context) (model.RunResult, error)
	TopHotspots(ctx context.Context, n int) ([]types.Hotspot, error)
	HotspotRank(ctx context.Context, segmentID string) (types.Hotspot, error)
}

// StatsProvider exposes service statistics for the stats endpoint.
type StatsProvider interface {
	GetStats() map[string]any
}

// Server wires HTTP routes for the analysis API.
type Server struct {
	runsHandler     *RunsHandler
	summaryHandler  *SummaryHandler
	hotspotsHandler *HotspotsHandler
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
}

// NewServer creates an API server with all handlers. maxHotspotLimit
// caps the hotspots limit query parameter.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxHotspotLimit int) *Server {
	return &Server{
		runsHandler:     NewRunsHandler(deps),
		summaryHandler:  NewSummaryHandler(deps),
		hotspotsHandler: NewHotspotsHandler(deps, maxHotspotLimit),
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/runs", MetricsMiddleware(s.runsHandler.HandleRuns, "runs"))
	mux.HandleFunc("/runs/", MetricsMiddleware(s.runsHandler.HandleGetRun, "runs"))
	mux.HandleFunc("/summary", MetricsMiddleware(s.summaryHandler.HandleSummary, "summary"))
	mux.HandleFunc("/hotspots", MetricsMiddleware(s.hotspotsHandler.HandleList, "hotspots"))
	mux.HandleFunc("/hotspots/", MetricsMiddleware(s.hotspotsHandler.HandleRank, "hotspots"))
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
