// Package features turns a player's chronological game history plus an
// upcoming-game context into a fixed-shape feature vector.
//
// Every field is computed from records strictly earlier than the target
// date. Records dated on or after the target date never influence the
// output.
package features

import (
	"fmt"
	"sort"

	"github.com/hoopcast/hoopcast/internal/domain/model"
)

// Default feature configuration constants.
const (
	defaultRestDayCap = 7  // rest beyond a week has no further marginal meaning
	shootingWindow    = 10 // trailing window for shooting percentages
)

// Trailing windows for the counting-stat rolling means.
var rollingWindows = [3]int{5, 10, 15}

// Ratings provides per-opponent strength lookups. The value is opaque to
// the builder (e.g. points allowed per game), resolved externally.
type Ratings interface {
	Rating(opponent string) (float64, bool)
}

// MapRatings implements Ratings over a static map.
type MapRatings map[string]float64

// Rating returns the strength value for an opponent id.
func (m MapRatings) Rating(opponent string) (float64, bool) {
	v, ok := m[opponent]
	return v, ok
}

// Builder constructs feature vectors. It is stateless apart from its
// configuration and safe for concurrent use.
type Builder struct {
	ratings    Ratings
	restDayCap int
}

// NewBuilder creates a feature builder backed by the given ratings source.
func NewBuilder(ratings Ratings, opts ...Option) *Builder {
	b := &Builder{
		ratings:    ratings,
		restDayCap: defaultRestDayCap,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives the feature vector for the given target context from the
// player's history (oldest to newest).
//
// Returns ErrInsufficientHistory when no game precedes the target date and
// ErrMissingReferenceData when the opponent has no strength entry.
func (b *Builder) Build(history []model.GameRecord, ctx model.GameContext) (model.FeatureVector, error) {
	prior := priorGames(history, ctx)
	if len(prior) == 0 {
		return model.FeatureVector{}, fmt.Errorf("%w: no games before %s", ErrInsufficientHistory, ctx.Date.Format("2006-01-02"))
	}

	rating, ok := b.ratings.Rating(ctx.Opponent)
	if !ok {
		return model.FeatureVector{}, fmt.Errorf("%w: no opponent rating for %q", ErrMissingReferenceData, ctx.Opponent)
	}

	fv := model.FeatureVector{
		OpponentRating: rating,
		RestDays:       b.restDays(prior, ctx),
	}
	if ctx.IsHome {
		fv.IsHome = 1
	}

	fv.PtsAvg5 = tailMean(prior, rollingWindows[0], points)
	fv.PtsAvg10 = tailMean(prior, rollingWindows[1], points)
	fv.PtsAvg15 = tailMean(prior, rollingWindows[2], points)
	fv.RebAvg5 = tailMean(prior, rollingWindows[0], rebounds)
	fv.RebAvg10 = tailMean(prior, rollingWindows[1], rebounds)
	fv.RebAvg15 = tailMean(prior, rollingWindows[2], rebounds)
	fv.AstAvg5 = tailMean(prior, rollingWindows[0], assists)
	fv.AstAvg10 = tailMean(prior, rollingWindows[1], assists)
	fv.AstAvg15 = tailMean(prior, rollingWindows[2], assists)
	fv.MinAvg5 = tailMean(prior, rollingWindows[0], minutes)
	fv.MinAvg10 = tailMean(prior, rollingWindows[1], minutes)
	fv.MinAvg15 = tailMean(prior, rollingWindows[2], minutes)

	fv.FGPctAvg10 = tailMean(prior, shootingWindow, func(r model.GameRecord) float64 { return r.FGPct })
	fv.FG3PctAvg10 = tailMean(prior, shootingWindow, func(r model.GameRecord) float64 { return r.FG3Pct })
	fv.FTPctAvg10 = tailMean(prior, shootingWindow, func(r model.GameRecord) float64 { return r.FTPct })

	// Season-to-date expanding means. If the target date precedes any game
	// in its own season, fall back to the career expanding mean.
	season := seasonGames(prior, ctx)
	if len(season) == 0 {
		season = prior
	}
	fv.SeasonPtsAvg = tailMean(season, len(season), points)
	fv.SeasonRebAvg = tailMean(season, len(season), rebounds)
	fv.SeasonAstAvg = tailMean(season, len(season), assists)
	fv.SeasonMinAvg = tailMean(season, len(season), minutes)

	return fv, nil
}

// priorGames returns the records strictly earlier than the target date,
// sorted oldest to newest. The input is expected ordered already; sorting a
// copy keeps the no-look-ahead guarantee independent of caller discipline.
func priorGames(history []model.GameRecord, ctx model.GameContext) []model.GameRecord {
	prior := make([]model.GameRecord, 0, len(history))
	for _, r := range history {
		if r.Date.Before(ctx.Date) {
			prior = append(prior, r)
		}
	}
	sort.SliceStable(prior, func(i, j int) bool { return prior[i].Date.Before(prior[j].Date) })
	return prior
}

// seasonGames filters prior games down to the target date's season.
func seasonGames(prior []model.GameRecord, ctx model.GameContext) []model.GameRecord {
	target := model.Season(ctx.Date)
	out := make([]model.GameRecord, 0, len(prior))
	for _, r := range prior {
		if model.Season(r.Date) == target {
			out = append(out, r)
		}
	}
	return out
}

// restDays computes whole days since the most recent prior game, capped.
func (b *Builder) restDays(prior []model.GameRecord, ctx model.GameContext) float64 {
	last := prior[len(prior)-1].Date
	days := int(ctx.Date.Sub(last).Hours() / 24)
	if days < 0 {
		days = 0
	}
	if days > b.restDayCap {
		days = b.restDayCap
	}
	return float64(days)
}

// tailMean averages the selector over the trailing n records, or over all
// of them when fewer than n exist. Never pads with zeros.
func tailMean(records []model.GameRecord, n int, sel func(model.GameRecord) float64) float64 {
	if len(records) == 0 {
		return 0
	}
	if n > len(records) {
		n = len(records)
	}
	var sum float64
	for _, r := range records[len(records)-n:] {
		sum += sel(r)
	}
	return sum / float64(n)
}

func points(r model.GameRecord) float64   { return r.Points }
func rebounds(r model.GameRecord) float64 { return r.Rebounds }
func assists(r model.GameRecord) float64  { return r.Assists }
func minutes(r model.GameRecord) float64  { return r.Minutes }
