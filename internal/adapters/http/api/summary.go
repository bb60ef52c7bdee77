package api

import (
	"errors"
	"net/http"

	"github.com/runsight/crossover/internal/adapters/repository"
)

// SummaryHandler serves GET /summary: the latest run's totals without
// the per-segment payload.
type SummaryHandler struct {
	deps Dependencies
}

// NewSummaryHandler creates a summary handler.
func NewSummaryHandler(deps Dependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// summaryResponse is the trimmed read shape for /summary.
type summaryResponse struct {
	RunID                   string `json:"run_id"`
	StartedAt               string `json:"started_at"`
	FinishedAt              string `json:"finished_at"`
	SegmentsProcessed       int    `json:"segments_processed"`
	SegmentsWithConvergence int    `json:"segments_with_convergence"`
	SegmentsSkipped         int    `json:"segments_skipped"`
}

// HandleSummary returns the latest run summary.
func (h *SummaryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	run, err := h.deps.LatestRun(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no runs yet")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		RunID:                   run.RunID,
		StartedAt:               run.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		FinishedAt:              run.FinishedAt.Format("2006-01-02T15:04:05Z07:00"),
		SegmentsProcessed:       run.Summary.SegmentsProcessed,
		SegmentsWithConvergence: run.Summary.SegmentsWithConvergence,
		SegmentsSkipped:         run.Summary.SegmentsSkipped,
	})
}
