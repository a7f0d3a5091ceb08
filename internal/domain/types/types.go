// Package types contains the read shapes shared between the service and
// the HTTP API.
package types

// RankEntry is one row of the draft board as returned to clients.
type RankEntry struct {
	Rank         int     `json:"rank"`
	PlayerID     string  `json:"player_id"`
	Name         string  `json:"name"`
	Position     string  `json:"position"`
	PositionRank int     `json:"position_rank"`
	FantasyScore float64 `json:"fantasy_score"`
	VOR          float64 `json:"vor"`
}

// Forecast is one stat's prediction with bounds at the requested level.
type Forecast struct {
	Stat     string  `json:"stat"`
	Estimate float64 `json:"estimate"`
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
}

// Prediction is a player's next-game projection.
type Prediction struct {
	PlayerID     string     `json:"player_id"`
	PlayerName   string     `json:"player_name"`
	GameDate     string     `json:"game_date"`
	Opponent     string     `json:"opponent"`
	IsHome       bool       `json:"is_home"`
	Level        float64    `json:"confidence_level"`
	Forecasts    []Forecast `json:"forecasts"`
	FantasyScore float64    `json:"fantasy_score"`
}

// Recommendation is a draft pick suggestion with fallback candidates.
type Recommendation struct {
	Recommended  RankEntry   `json:"recommended"`
	Alternatives []RankEntry `json:"alternatives"`
	Reason       string      `json:"reason"`
}

// PositionScarcity summarizes remaining value at one position.
type PositionScarcity struct {
	Position    string  `json:"position"`
	Remaining   int     `json:"remaining"`
	TopValue    float64 `json:"top_value"`
	AvgTopValue float64 `json:"avg_top_value"`
	Level       string  `json:"level"`
}

// ComparisonPlayer is one player's column in a head-to-head comparison.
type ComparisonPlayer struct {
	PlayerID     string             `json:"player_id"`
	Name         string             `json:"name"`
	Position     string             `json:"position"`
	GamesPlayed  int                `json:"games_played"`
	LastOpponent string             `json:"last_opponent"`
	LastGameDate string             `json:"last_game_date"`
	Forecasts    []Forecast         `json:"forecasts"`
	FantasyScore float64            `json:"fantasy_score"`
	SeasonAvg    map[string]float64 `json:"season_avg"`
	LastFiveAvg  map[string]float64 `json:"last_five_avg"`
	SeasonHigh   map[string]float64 `json:"season_high"`
	Trend        map[string]string  `json:"trend,omitempty"`
}

// CategoryWinner names the player leading one comparison category.
type CategoryWinner struct {
	Winner string             `json:"winner"`
	Values map[string]float64 `json:"values"`
}

// Comparison is a head-to-head view of two or three players.
type Comparison struct {
	Players         []ComparisonPlayer        `json:"players"`
	ForecastWinners map[string]CategoryWinner `json:"forecast_winners"`
	SeasonWinners   map[string]CategoryWinner `json:"season_winners"`
	FantasyWinner   CategoryWinner            `json:"fantasy_winner"`
}

// PlayerSummary identifies a tracked player.
type PlayerSummary struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Games    int    `json:"games"`
}

// GameSummary is one history row as returned to clients.
type GameSummary struct {
	RecordID  string  `json:"record_id"`
	Date      string  `json:"date"`
	Opponent  string  `json:"opponent"`
	IsHome    bool    `json:"is_home"`
	Minutes   float64 `json:"minutes"`
	Points    float64 `json:"points"`
	Rebounds  float64 `json:"rebounds"`
	Assists   float64 `json:"assists"`
	Steals    float64 `json:"steals"`
	Blocks    float64 `json:"blocks"`
	Turnovers float64 `json:"turnovers"`
	FGPct     float64 `json:"fg_pct"`
	FG3Pct    float64 `json:"fg3_pct"`
	FTPct     float64 `json:"ft_pct"`
}
