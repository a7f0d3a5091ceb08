package draft

import "errors"

// Sentinel kinds for draft errors.
var (
	// ErrNoPlayersAvailable means even the unfiltered available pool is
	// empty. The engine always falls back to the full pool before
	// reporting this.
	ErrNoPlayersAvailable = errors.New("no players available")
)
