// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"strings"
	"time"
)

// Canonical stat names used across features, scoring weights, and forecasts.
const (
	StatPoints    = "points"
	StatRebounds  = "rebounds"
	StatAssists   = "assists"
	StatSteals    = "steals"
	StatBlocks    = "blocks"
	StatTurnovers = "turnovers"
	StatMinutes   = "minutes"
)

// ForecastStats lists the stats that have trained forecasters, in a fixed order.
var ForecastStats = []string{StatPoints, StatRebounds, StatAssists}

// Validation errors for game records.
var (
	ErrMissingRecordID = errors.New("missing record id")
	ErrMissingPlayerID = errors.New("missing player id")
	ErrMissingDate     = errors.New("missing game date")
	ErrNegativeStat    = errors.New("negative stat value")
	ErrBadPercentage   = errors.New("shooting percentage outside [0,1]")
)

// GameRecord is one completed game for one player. Records are immutable
// once appended to the history store.
type GameRecord struct {
	RecordID   string // unique id for idempotent ingestion
	PlayerID   string
	PlayerName string
	Position   string // PG, SG, SF, PF, C
	Date       time.Time
	Opponent   string // opponent team abbreviation
	IsHome     bool
	Minutes    float64
	Points     float64
	Rebounds   float64
	Assists    float64
	Steals     float64
	Blocks     float64
	Turnovers  float64
	FGPct      float64
	FG3Pct     float64
	FTPct      float64
}

// Validate checks structural integrity of a record before it is appended.
func (r GameRecord) Validate() error {
	switch {
	case strings.TrimSpace(r.RecordID) == "":
		return ErrMissingRecordID
	case strings.TrimSpace(r.PlayerID) == "":
		return ErrMissingPlayerID
	case r.Date.IsZero():
		return ErrMissingDate
	}
	for _, v := range []float64{r.Minutes, r.Points, r.Rebounds, r.Assists, r.Steals, r.Blocks, r.Turnovers} {
		if v < 0 {
			return ErrNegativeStat
		}
	}
	for _, p := range []float64{r.FGPct, r.FG3Pct, r.FTPct} {
		if p < 0 || p > 1 {
			return ErrBadPercentage
		}
	}
	return nil
}

// Season returns the season key a game date belongs to. Seasons span the
// calendar-year boundary: games from October onward belong to that year's
// season, earlier games to the previous year's.
func Season(d time.Time) int {
	if d.Month() >= time.October {
		return d.Year()
	}
	return d.Year() - 1
}

// GameContext describes the upcoming game a forecast targets.
type GameContext struct {
	Date     time.Time
	IsHome   bool
	Opponent string
}

// StatLine maps canonical stat names to values. Used both for realized
// season averages and for forecast point estimates.
type StatLine map[string]float64

// FeatureVector is the fixed, named set of numeric features derived from a
// player's history as of a target date. Every field is computed from
// records strictly earlier than the target date.
type FeatureVector struct {
	// Trailing-window means over the last 5/10/15 prior games.
	PtsAvg5, PtsAvg10, PtsAvg15 float64
	RebAvg5, RebAvg10, RebAvg15 float64
	AstAvg5, AstAvg10, AstAvg15 float64
	MinAvg5, MinAvg10, MinAvg15 float64

	// Season-to-date expanding means.
	SeasonPtsAvg float64
	SeasonRebAvg float64
	SeasonAstAvg float64
	SeasonMinAvg float64

	// Game context.
	IsHome   float64 // 1 for home, 0 for away
	RestDays float64 // days since previous game, capped at 7

	// Trailing shooting efficiency over the last 10 prior games.
	FGPctAvg10  float64
	FG3PctAvg10 float64
	FTPctAvg10  float64

	// Opponent strength, looked up per opponent id.
	OpponentRating float64
}

// Map returns the vector keyed by canonical feature names, the shape model
// artifacts address coefficients by.
func (f FeatureVector) Map() map[string]float64 {
	return map[string]float64{
		"pts_avg_5": f.PtsAvg5, "pts_avg_10": f.PtsAvg10, "pts_avg_15": f.PtsAvg15,
		"reb_avg_5": f.RebAvg5, "reb_avg_10": f.RebAvg10, "reb_avg_15": f.RebAvg15,
		"ast_avg_5": f.AstAvg5, "ast_avg_10": f.AstAvg10, "ast_avg_15": f.AstAvg15,
		"min_avg_5": f.MinAvg5, "min_avg_10": f.MinAvg10, "min_avg_15": f.MinAvg15,
		"season_pts_avg": f.SeasonPtsAvg, "season_reb_avg": f.SeasonRebAvg,
		"season_ast_avg": f.SeasonAstAvg, "season_min_avg": f.SeasonMinAvg,
		"is_home": f.IsHome, "rest_days": f.RestDays,
		"fg_pct_avg_10": f.FGPctAvg10, "fg3_pct_avg_10": f.FG3PctAvg10, "ft_pct_avg_10": f.FTPctAvg10,
		"opponent_rating": f.OpponentRating,
	}
}

// StatForecast is one forecaster's output for one stat.
type StatForecast struct {
	Stat          string
	Estimate      float64
	ResidualSigma float64
}

// ConfidenceInterval bounds a forecast at a requested confidence level.
// It is derivable from {Estimate, ResidualSigma, Level} alone and is never
// persisted.
type ConfidenceInterval struct {
	Level float64
	Lower float64
	Upper float64
}

// PoolPlayer is a ranking-pool member: identity plus fantasy value.
type PoolPlayer struct {
	PlayerID     string
	Name         string
	Position     string
	FantasyScore float64
}

// RankEntry is one row of a draft board.
type RankEntry struct {
	PlayerID     string
	Name         string
	Position     string
	FantasyScore float64
	Rank         int
	PositionRank int
	VOR          float64
}
