// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	service "github.com/hoopcast/hoopcast/internal/app"
)

// CompareHandler handles head-to-head player comparison requests.
type CompareHandler struct {
	deps Dependencies
}

// NewCompareHandler creates a new comparison handler.
func NewCompareHandler(deps Dependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

// compareRequest mirrors the JSON schema for POST /compare.
type compareRequest struct {
	Players []string `json:"players"`
}

// HandleCompare handles POST /compare requests.
func (h *CompareHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	cmp, err := h.deps.Compare(r.Context(), req.Players)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrComparisonSize):
			writeError(w, http.StatusBadRequest, "bad_request", err)
		case isNotFound(err):
			writeError(w, http.StatusNotFound, "not_found", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}
