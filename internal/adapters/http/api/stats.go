// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	service "github.com/hoopcast/hoopcast/internal/app"
)

// StatsProvider supplies the service snapshot served on /stats.
type StatsProvider interface {
	Stats() service.Stats
}

// StatsHandler serves the service snapshot.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.Stats())
}
