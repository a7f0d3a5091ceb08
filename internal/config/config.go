// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file and
//   env overrides on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Store backend names accepted by StoreBackend.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory ingest queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingest workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the record-id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// StoreBackend selects the game log store: memory or sqlite.
	StoreBackend string `koanf:"store_backend"`

	// DBPath locates the SQLite database when StoreBackend is sqlite.
	DBPath string `koanf:"db_path"`

	// ModelsDir points at per-stat model artifact files. Empty falls back
	// to the built-in baseline models.
	ModelsDir string `koanf:"models_dir"`

	// LeagueSize sets the default number of teams used for replacement
	// levels in rankings.
	LeagueSize int `koanf:"league_size"`

	// MaxRankingLimit caps GET /rankings result size.
	MaxRankingLimit int `koanf:"max_ranking_limit"`

	// ConfidenceLevel is the default prediction interval level.
	ConfidenceLevel float64 `koanf:"confidence_level"`

	// RestDayCap bounds the rest-day feature.
	RestDayCap int `koanf:"rest_day_cap"`

	// ScoringWeights overrides fantasy point weights per stat. Empty keeps
	// the standard weights.
	ScoringWeights map[string]float64 `koanf:"scoring_weights"`

	// OpponentRatings maps opponent codes to defensive strength ratings.
	OpponentRatings map[string]float64 `koanf:"opponent_ratings"`

	// RosterSlots maps positions to roster slot counts, used to derive
	// team needs during drafts.
	RosterSlots map[string]int `koanf:"roster_slots"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		QueueSize:       100_000,
		WorkerCount:     runtime.NumCPU() * 4,
		DedupeSize:      500_000,
		StoreBackend:    StoreMemory,
		LeagueSize:      12,
		MaxRankingLimit: 500,
		ConfidenceLevel: 0.95,
		RestDayCap:      7,
		ScoringWeights:  map[string]float64{},
		OpponentRatings: map[string]float64{},
		RosterSlots: map[string]int{
			"PG": 2,
			"SG": 2,
			"SF": 2,
			"PF": 2,
			"C":  2,
		},
	}
	return c
}
