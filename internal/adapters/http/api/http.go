// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hoopcast/hoopcast/internal/domain/model"
	"github.com/hoopcast/hoopcast/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Ingest submits a game record for async storage. Returns
	// (queued, duplicate); queued is false on backpressure.
	Ingest(ctx context.Context, rec model.GameRecord) (bool, bool)

	// Read operations over the game history.
	Players(ctx context.Context) ([]types.PlayerSummary, error)
	PlayerGames(ctx context.Context, playerID string) ([]types.GameSummary, error)

	// Predict builds a next-game projection for one player.
	Predict(ctx context.Context, playerID string, gameCtx model.GameContext, level float64) (types.Prediction, error)

	// Rankings builds the full draft board.
	Rankings(ctx context.Context, leagueSize int, source string) ([]types.RankEntry, error)

	// Draft-day operations.
	Recommend(ctx context.Context, drafted, myTeam []string, needs map[string]int, leagueSize int) (types.Recommendation, error)
	BestAvailable(ctx context.Context, drafted []string, topN, leagueSize int) ([]types.RankEntry, error)
	Scarcity(ctx context.Context, drafted []string, leagueSize int) ([]types.PositionScarcity, error)

	// Compare builds a head-to-head view of two or three players.
	Compare(ctx context.Context, playerIDs []string) (types.Comparison, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	gamesHandler   *GamesHandler
	playersHandler *PlayersHandler
	rankingHandler *RankingHandler
	draftHandler   *DraftHandler
	compareHandler *CompareHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// ranking result size a single request may ask for.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		gamesHandler:   NewGamesHandler(deps),
		playersHandler: NewPlayersHandler(deps),
		rankingHandler: NewRankingHandler(deps, maxLimit),
		draftHandler:   NewDraftHandler(deps),
		compareHandler: NewCompareHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/games", MetricsMiddleware(s.gamesHandler.HandlePostGame, "games"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleListPlayers, "players"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandlePlayerSubpath, "players"))
	mux.HandleFunc("/rankings", MetricsMiddleware(s.rankingHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("/draft/recommend", MetricsMiddleware(s.draftHandler.HandleRecommend, "draft_recommend"))
	mux.HandleFunc("/draft/available", MetricsMiddleware(s.draftHandler.HandleBestAvailable, "draft_available"))
	mux.HandleFunc("/draft/scarcity", MetricsMiddleware(s.draftHandler.HandleScarcity, "draft_scarcity"))
	mux.HandleFunc("/compare", MetricsMiddleware(s.compareHandler.HandleCompare, "compare"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
