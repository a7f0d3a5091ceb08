package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrBadLeagueSize = errors.New("league size must be at least 1")
)
