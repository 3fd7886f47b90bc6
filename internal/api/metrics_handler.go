package api

import (
	"net/http"

	"github.com/lunafield/cortex-api/internal/api/shared"
	"github.com/lunafield/cortex-api/internal/service/metrics"
)

// MetricsHandler serves the computed metrics read surface.
type MetricsHandler struct {
	service metrics.Service
}

// NewMetricsHandler creates a new MetricsHandler with the given service.
func NewMetricsHandler(service metrics.Service) *MetricsHandler {
	return &MetricsHandler{service: service}
}

// Overview handles GET /api/metrics. Reading the metrics runs a computation
// pass, so this is also the decay heartbeat: the snapshot transition and a
// decay event fire as side effects.
func (h *MetricsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	overview, err := h.service.Overview(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overview)
}

// SCI handles GET /api/sci, returning just the composite index slice of the
// overview.
func (h *MetricsHandler) SCI(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	overview, err := h.service.Overview(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overview.SCI)
}

// Snapshots handles GET /api/snapshots?from=2026-03-01&to=2026-03-31.
func (h *MetricsHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	from, to, err := parseDateRange(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	snapshots, err := h.service.Snapshots(r.Context(), userID, from, to)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, snapshots)
}

// Events handles GET /api/events with RFC 3339 from/to query parameters.
func (h *MetricsHandler) Events(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	from, to, err := parseTimeRange(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	events, err := h.service.Events(r.Context(), userID, from, to)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, events)
}
