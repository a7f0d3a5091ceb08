// Package repository defines the game log store interface and its
// in-memory and SQLite implementations.
package repository

import (
	"context"

	"github.com/hoopcast/hoopcast/internal/domain/model"
)

// PlayerInfo summarizes one player tracked by the store.
type PlayerInfo struct {
	PlayerID  string
	Name      string
	Position  string
	GameCount int
}

// Store provides read/write access to player game logs.
type Store interface {
	// Append stores one game record. Returns ErrDuplicateRecord when the
	// record id is already stored.
	Append(ctx context.Context, rec model.GameRecord) error

	// History returns the player's game log in chronological order.
	// Returns ErrNotFound for an unknown player.
	History(ctx context.Context, playerID string) ([]model.GameRecord, error)

	// Players lists tracked players ordered by player id.
	Players(ctx context.Context) ([]PlayerInfo, error)

	// Averages returns per-game stat averages for a player and the number
	// of games behind them. A positive season restricts to that season;
	// zero or negative averages the full log. Returns ErrNotFound for an
	// unknown player; a known player with no games in the season yields a
	// zero count and nil line.
	Averages(ctx context.Context, playerID string, season int) (model.StatLine, int, error)

	// Counts reports the number of players and game records stored.
	Counts(ctx context.Context) (players int, games int, err error)

	Close() error
}
