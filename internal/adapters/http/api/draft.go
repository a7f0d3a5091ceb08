// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/hoopcast/hoopcast/internal/domain/draft"
)

// DraftHandler handles draft-day requests.
type DraftHandler struct {
	deps Dependencies
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(deps Dependencies) *DraftHandler {
	return &DraftHandler{deps: deps}
}

// recommendRequest mirrors the JSON schema for POST /draft/recommend.
// Needs, when present, overrides the server-side roster-slot derivation.
type recommendRequest struct {
	Drafted    []string       `json:"drafted"`
	MyTeam     []string       `json:"my_team"`
	Needs      map[string]int `json:"needs"`
	LeagueSize int            `json:"league_size"`
}

func (req recommendRequest) validate() error {
	drafted := make(map[string]struct{}, len(req.Drafted))
	for _, id := range req.Drafted {
		drafted[id] = struct{}{}
	}
	for _, id := range req.MyTeam {
		if _, ok := drafted[id]; !ok {
			return fmt.Errorf("my_team player %q not in drafted", id)
		}
	}
	if req.LeagueSize < 0 {
		return errors.New("league_size must not be negative")
	}
	return nil
}

// availableRequest mirrors the JSON schema for POST /draft/available.
type availableRequest struct {
	Drafted    []string `json:"drafted"`
	TopN       int      `json:"top_n"`
	LeagueSize int      `json:"league_size"`
}

// HandleRecommend handles POST /draft/recommend requests.
func (h *DraftHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	const op = "api.draft_recommend"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	rec, err := h.deps.Recommend(r.Context(), req.Drafted, req.MyTeam, req.Needs, req.LeagueSize)
	if err != nil {
		if errors.Is(err, draft.ErrNoPlayersAvailable) {
			writeError(w, http.StatusConflict, "pool_exhausted", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleBestAvailable handles POST /draft/available requests.
func (h *DraftHandler) HandleBestAvailable(w http.ResponseWriter, r *http.Request) {
	const op = "api.draft_available"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req availableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	if req.TopN < 0 || req.LeagueSize < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: top_n and league_size must not be negative", op, ErrBadRequest))
		return
	}

	entries, err := h.deps.BestAvailable(r.Context(), req.Drafted, req.TopN, req.LeagueSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleScarcity handles GET /draft/scarcity?drafted=a,b,c requests.
func (h *DraftHandler) HandleScarcity(w http.ResponseWriter, r *http.Request) {
	const op = "api.draft_scarcity"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	var drafted []string
	if v := q.Get("drafted"); v != "" {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				drafted = append(drafted, id)
			}
		}
	}

	leagueSize := 0
	if v := q.Get("league_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: invalid league_size", op, ErrBadRequest))
			return
		}
		leagueSize = n
	}

	summary, err := h.deps.Scarcity(r.Context(), drafted, leagueSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
