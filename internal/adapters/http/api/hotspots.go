package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/runsight/crossover/internal/adapters/repository"
)

// Default and maximum hotspot listing sizes.
const defaultHotspotLimit = 10

// HotspotsHandler serves GET /hotspots and GET /hotspots/{segment_id}.
type HotspotsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewHotspotsHandler creates a hotspots handler.
func NewHotspotsHandler(deps Dependencies, maxLimit int) *HotspotsHandler {
	if maxLimit < 1 {
		maxLimit = defaultHotspotLimit
	}
	return &HotspotsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleList returns the busiest segments of the latest run.
func (h *HotspotsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultHotspotLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	if limit > h.maxLimit {
		limit = h.maxLimit
	}

	hotspots, err := h.deps.TopHotspots(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, hotspots)
}

// HandleRank returns the hotspot entry for one segment.
func (h *HotspotsHandler) HandleRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	segmentID := strings.TrimPrefix(r.URL.Path, "/hotspots/")
	if segmentID == "" || strings.Contains(segmentID, "/") {
		writeError(w, http.StatusBadRequest, "missing segment id")
		return
	}

	hotspot, err := h.deps.HotspotRank(r.Context(), segmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "segment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, hotspot)
}
