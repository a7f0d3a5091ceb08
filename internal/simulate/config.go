package simulate

import "time"

// Config holds configuration for the season simulation run.
type Config struct {
	BaseURL        string        // Base URL of the service
	NumPlayers     int           // Number of players to generate
	GamesPerPlayer int           // Games per player across the season
	LeagueSize     int           // League size passed to ranking requests
	TopN           int           // Number of board entries to fetch
	Workers        int           // Number of concurrent workers
	Timeout        time.Duration // HTTP request timeout
	OutputFile     string        // Output file for generated games
	LogFile        string        // Log file for run output
	CalibrateDir   string        // Directory for calibrated model artifacts (empty disables)
	Verbose        bool          // Enable verbose logging
}

// Game mirrors the JSON schema accepted by POST /games.
type Game struct {
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

// BoardEntry mirrors one row of the draft board returned by GET /rankings.
type BoardEntry struct {
	Rank         int     `json:"rank"`
	PlayerID     string  `json:"player_id"`
	Name         string  `json:"name"`
	Position     string  `json:"position"`
	PositionRank int     `json:"position_rank"`
	FantasyScore float64 `json:"fantasy_score"`
	VOR          float64 `json:"vor"`
}

// AckResponse mirrors the response from game submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds simulation run statistics.
type Stats struct {
	GamesGenerated  int
	GamesSubmitted  int
	GamesSuccessful int
	GamesDuplicate  int
	GamesFailed     int
	BoardEntries    int
	PredictionsOK   int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
