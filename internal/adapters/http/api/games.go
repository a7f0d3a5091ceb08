// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hoopcast/hoopcast/internal/domain/model"
)

// GamesHandler handles game record ingestion.
type GamesHandler struct {
	deps Dependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps Dependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// gameRequest mirrors the JSON schema for POST /games.
type gameRequest struct {
	RecordID   string  `json:"record_id"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Position   string  `json:"position"`
	Date       string  `json:"date"`
	Opponent   string  `json:"opponent"`
	IsHome     bool    `json:"is_home"`
	Minutes    float64 `json:"minutes"`
	Points     float64 `json:"points"`
	Rebounds   float64 `json:"rebounds"`
	Assists    float64 `json:"assists"`
	Steals     float64 `json:"steals"`
	Blocks     float64 `json:"blocks"`
	Turnovers  float64 `json:"turnovers"`
	FGPct      float64 `json:"fg_pct"`
	FG3Pct     float64 `json:"fg3_pct"`
	FTPct      float64 `json:"ft_pct"`
}

func (g gameRequest) toRecord() (model.GameRecord, error) {
	switch {
	case strings.TrimSpace(g.RecordID) == "":
		return model.GameRecord{}, errors.New("missing record_id")
	case strings.TrimSpace(g.PlayerID) == "":
		return model.GameRecord{}, errors.New("missing player_id")
	case strings.TrimSpace(g.Date) == "":
		return model.GameRecord{}, errors.New("missing date")
	}
	date, err := time.Parse("2006-01-02", g.Date)
	if err != nil {
		return model.GameRecord{}, errors.New("invalid date; must be YYYY-MM-DD")
	}

	rec := model.GameRecord{
		RecordID:   g.RecordID,
		PlayerID:   g.PlayerID,
		PlayerName: g.PlayerName,
		Position:   g.Position,
		Date:       date,
		Opponent:   g.Opponent,
		IsHome:     g.IsHome,
		Minutes:    g.Minutes,
		Points:     g.Points,
		Rebounds:   g.Rebounds,
		Assists:    g.Assists,
		Steals:     g.Steals,
		Blocks:     g.Blocks,
		Turnovers:  g.Turnovers,
		FGPct:      g.FGPct,
		FG3Pct:     g.FG3Pct,
		FTPct:      g.FTPct,
	}
	if err := rec.Validate(); err != nil {
		return model.GameRecord{}, err
	}
	return rec, nil
}

// HandlePostGame handles POST /games requests.
func (h *GamesHandler) HandlePostGame(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_game"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req gameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}
	rec, err := req.toRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	queued, duplicate := h.deps.Ingest(r.Context(), rec)
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	if !queued {
		writeError(w, http.StatusServiceUnavailable, "backpressure", fmt.Errorf("%s: %w", op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
