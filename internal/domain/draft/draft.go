// Package draft selects picks from a draft board. The engine holds no
// session: every call receives the drafted set from the caller and returns
// a value, so concurrent drafters sharing one board need no coordination
// here.
package draft

import (
	"fmt"
	"sort"

	"github.com/hoopcast/hoopcast/internal/domain/model"
)

// Default engine configuration constants.
const (
	defaultAlternatives = 3
	defaultScarcityTop  = 10 // window for per-position average of remaining value
)

// Scarcity levels by count of remaining players at a position.
const (
	ScarcityLow      = "LOW"
	ScarcityMedium   = "MEDIUM"
	ScarcityHigh     = "HIGH"
	ScarcityCritical = "CRITICAL"
)

// Recommendation is the engine's answer: the best pick plus fallbacks.
type Recommendation struct {
	Recommended  model.RankEntry
	Alternatives []model.RankEntry
	Reason       string
}

// PositionScarcity summarizes the remaining value at one position.
type PositionScarcity struct {
	Position    string
	Remaining   int
	TopValue    float64
	AvgTopValue float64
	Level       string
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithAlternatives sets how many fallback candidates a recommendation
// carries.
func WithAlternatives(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.alternatives = n
		}
	}
}

// WithScarcityWindow sets the per-position window for the remaining-value
// average.
func WithScarcityWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.scarcityTop = n
		}
	}
}

// Engine picks players off a draft board. Stateless and safe for
// concurrent use.
type Engine struct {
	alternatives int
	scarcityTop  int
}

// NewEngine creates a draft engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		alternatives: defaultAlternatives,
		scarcityTop:  defaultScarcityTop,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend selects the best available pick from the board.
//
// The drafted set removes players from consideration. When needs lists
// positions with remaining roster slots, the search restricts to those
// positions as long as any needed position still has available players;
// otherwise it falls back to the full available pool. Candidates are
// ordered by value over replacement, so positional scarcity raises a
// player's priority over raw score.
func (e *Engine) Recommend(
	board []model.RankEntry,
	drafted map[string]struct{},
	needs map[string]int,
) (Recommendation, error) {
	available := e.available(board, drafted)
	if len(available) == 0 {
		return Recommendation{}, fmt.Errorf("%w: all %d ranked players drafted", ErrNoPlayersAvailable, len(board))
	}

	candidates := available
	filledNeed := false
	if filtered := filterByNeeds(available, needs); len(filtered) > 0 {
		candidates = filtered
		filledNeed = true
	}

	byVOR(candidates)
	reason := "highest value over replacement available"
	if filledNeed {
		reason = fmt.Sprintf("fills %s need", candidates[0].Position)
	}

	alts := candidates[1:]
	if len(alts) > e.alternatives {
		alts = alts[:e.alternatives]
	}
	out := Recommendation{
		Recommended:  candidates[0],
		Alternatives: append([]model.RankEntry{}, alts...),
		Reason:       reason,
	}
	return out, nil
}

// BestAvailable returns the top undrafted players in board order.
func (e *Engine) BestAvailable(board []model.RankEntry, drafted map[string]struct{}, topN int) []model.RankEntry {
	available := e.available(board, drafted)
	sort.SliceStable(available, func(i, j int) bool { return available[i].Rank < available[j].Rank })
	if topN > 0 && len(available) > topN {
		available = available[:topN]
	}
	return available
}

// Scarcity summarizes remaining value per position, sorted by position
// name for stable output.
func (e *Engine) Scarcity(board []model.RankEntry, drafted map[string]struct{}) []PositionScarcity {
	remaining := make(map[string][]model.RankEntry)
	for _, entry := range e.available(board, drafted) {
		remaining[entry.Position] = append(remaining[entry.Position], entry)
	}

	positions := make([]string, 0, len(remaining))
	for pos := range remaining {
		positions = append(positions, pos)
	}
	sort.Strings(positions)

	out := make([]PositionScarcity, 0, len(positions))
	for _, pos := range positions {
		entries := remaining[pos]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Rank < entries[j].Rank })

		top := entries
		if len(top) > e.scarcityTop {
			top = top[:e.scarcityTop]
		}
		var sum float64
		for _, entry := range top {
			sum += entry.FantasyScore
		}

		out = append(out, PositionScarcity{
			Position:    pos,
			Remaining:   len(entries),
			TopValue:    entries[0].FantasyScore,
			AvgTopValue: sum / float64(len(top)),
			Level:       scarcityLevel(len(entries)),
		})
	}
	return out
}

func (e *Engine) available(board []model.RankEntry, drafted map[string]struct{}) []model.RankEntry {
	out := make([]model.RankEntry, 0, len(board))
	for _, entry := range board {
		if _, taken := drafted[entry.PlayerID]; !taken {
			out = append(out, entry)
		}
	}
	return out
}

// filterByNeeds keeps players at positions with remaining need. An empty
// result means no needed position has available players; the caller falls
// back to the unfiltered pool.
func filterByNeeds(available []model.RankEntry, needs map[string]int) []model.RankEntry {
	if len(needs) == 0 {
		return nil
	}
	anyNeed := false
	for _, n := range needs {
		if n > 0 {
			anyNeed = true
			break
		}
	}
	if !anyNeed {
		return nil
	}
	out := make([]model.RankEntry, 0, len(available))
	for _, entry := range available {
		if needs[entry.Position] > 0 {
			out = append(out, entry)
		}
	}
	return out
}

// byVOR orders candidates by value over replacement descending, breaking
// ties by global rank for determinism.
func byVOR(entries []model.RankEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].VOR != entries[j].VOR {
			return entries[i].VOR > entries[j].VOR
		}
		return entries[i].Rank < entries[j].Rank
	})
}

func scarcityLevel(remaining int) string {
	switch {
	case remaining >= 30:
		return ScarcityLow
	case remaining >= 15:
		return ScarcityMedium
	case remaining >= 5:
		return ScarcityHigh
	default:
		return ScarcityCritical
	}
}
