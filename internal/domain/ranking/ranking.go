// Package ranking builds draft boards: a deterministic ordering of a
// player pool with positional replacement-value deltas.
package ranking

import (
	"fmt"
	"sort"

	"github.com/hoopcast/hoopcast/internal/domain/model"
)

// RankPool orders the pool descending by fantasy score and computes, for a
// league of leagueSize teams, each player's value over the positional
// replacement level.
//
// The replacement level for a position is the score of the player at
// position rank leagueSize — the last player a typical league would be
// forced to start there — or the lowest score present when the position is
// thinner than that. Ties in fantasy score break by player id, so the
// result is a pure function of its inputs.
func RankPool(pool []model.PoolPlayer, leagueSize int) ([]model.RankEntry, error) {
	if leagueSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadLeagueSize, leagueSize)
	}

	sorted := make([]model.PoolPlayer, len(pool))
	copy(sorted, pool)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FantasyScore != sorted[j].FantasyScore {
			return sorted[i].FantasyScore > sorted[j].FantasyScore
		}
		return sorted[i].PlayerID < sorted[j].PlayerID
	})

	entries := make([]model.RankEntry, len(sorted))
	positionCounts := make(map[string]int)
	replacement := make(map[string]float64)

	for i, p := range sorted {
		positionCounts[p.Position]++
		posRank := positionCounts[p.Position]

		// The global ordering is also the per-position ordering, so the
		// replacement level surfaces the first time a position reaches
		// rank leagueSize, and tracks the lowest score seen for thinner
		// positions.
		if posRank <= leagueSize {
			replacement[p.Position] = p.FantasyScore
		}

		entries[i] = model.RankEntry{
			PlayerID:     p.PlayerID,
			Name:         p.Name,
			Position:     p.Position,
			FantasyScore: p.FantasyScore,
			Rank:         i + 1,
			PositionRank: posRank,
		}
	}

	for i := range entries {
		entries[i].VOR = entries[i].FantasyScore - replacement[entries[i].Position]
	}

	return entries, nil
}
