// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hoopcast/hoopcast/internal/adapters/repository"
)

// PlayersHandler handles player listing and per-player game log requests.
type PlayersHandler struct {
	deps Dependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleListPlayers handles GET /players requests.
func (h *PlayersHandler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_players"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	players, err := h.deps.Players(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// HandlePlayerSubpath dispatches GET /players/{id}/games and
// GET /players/{id}/prediction requests.
func (h *PlayersHandler) HandlePlayerSubpath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/players/")
	playerID, action, ok := strings.Cut(rest, "/")
	if !ok || playerID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	switch action {
	case "games":
		h.handlePlayerGames(w, r, playerID)
	case "prediction":
		handlePrediction(w, r, h.deps, playerID)
	default:
		http.NotFound(w, r)
	}
}

func (h *PlayersHandler) handlePlayerGames(w http.ResponseWriter, r *http.Request, playerID string) {
	games, err := h.deps.PlayerGames(r.Context(), playerID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
