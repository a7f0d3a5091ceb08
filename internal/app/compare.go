// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"

	"github.com/hoopcast/hoopcast/internal/domain/forecast"
	"github.com/hoopcast/hoopcast/internal/domain/model"
	"github.com/hoopcast/hoopcast/internal/domain/types"
)

// Comparison sizing bounds. Head-to-head output stops being readable past
// three columns, and one column has nothing to compare against.
const (
	minComparePlayers = 2
	maxComparePlayers = 3
)

// trendWindow is the number of recent games weighed against the window
// before it when calling a stat trend.
const trendWindow = 5

// Compare builds a head-to-head view of two or three players: next-game
// forecasts over a synthetic next game (one day after each player's latest
// record, neutral opponent), career averages, recent form, and per-category
// winners.
func (s *Service) Compare(ctx context.Context, playerIDs []string) (types.Comparison, error) {
	if len(playerIDs) < minComparePlayers || len(playerIDs) > maxComparePlayers {
		return types.Comparison{}, fmt.Errorf("%w: got %d", ErrComparisonSize, len(playerIDs))
	}

	out := types.Comparison{
		Players: make([]types.ComparisonPlayer, 0, len(playerIDs)),
	}
	forecastLines := make(map[string]map[string]float64, len(model.ForecastStats))
	seasonLines := make(map[string]map[string]float64, len(model.ForecastStats))
	fantasy := make(map[string]float64, len(playerIDs))

	for _, id := range playerIDs {
		history, err := s.store.History(ctx, id)
		if err != nil {
			return types.Comparison{}, fmt.Errorf("compare %s: %w", id, err)
		}

		latest := history[len(history)-1]
		gameCtx := model.GameContext{Date: latest.Date.AddDate(0, 0, 1)}
		fv, err := s.poolBuilder.Build(history, gameCtx)
		if err != nil {
			return types.Comparison{}, fmt.Errorf("compare %s: %w", id, err)
		}
		forecasts, err := s.models.ForecastAll(fv)
		if err != nil {
			return types.Comparison{}, fmt.Errorf("compare %s: %w", id, err)
		}
		line, err := s.projectedLine(ctx, id, gameCtx, forecasts)
		if err != nil {
			return types.Comparison{}, fmt.Errorf("compare %s: %w", id, err)
		}

		player := types.ComparisonPlayer{
			PlayerID:     id,
			Name:         latest.PlayerName,
			Position:     latest.Position,
			GamesPlayed:  len(history),
			LastOpponent: latest.Opponent,
			LastGameDate: latest.Date.Format(dateLayout),
			Forecasts:    make([]types.Forecast, 0, len(forecasts)),
			FantasyScore: s.scorer.Score(line),
			SeasonAvg:    statMeans(history),
			LastFiveAvg:  statMeans(tail(history, trendWindow)),
			SeasonHigh:   statHighs(history),
		}
		for _, f := range forecasts {
			ci, err := forecast.Interval(f, s.confidenceLevel)
			if err != nil {
				return types.Comparison{}, fmt.Errorf("compare %s: %w", id, err)
			}
			player.Forecasts = append(player.Forecasts, types.Forecast{
				Stat:     f.Stat,
				Estimate: f.Estimate,
				Lower:    ci.Lower,
				Upper:    ci.Upper,
			})
		}
		if len(history) >= 2*trendWindow {
			player.Trend = statTrends(history)
		}

		for _, f := range forecasts {
			if forecastLines[f.Stat] == nil {
				forecastLines[f.Stat] = make(map[string]float64, len(playerIDs))
			}
			forecastLines[f.Stat][id] = f.Estimate
		}
		for stat, val := range player.SeasonAvg {
			if seasonLines[stat] == nil {
				seasonLines[stat] = make(map[string]float64, len(playerIDs))
			}
			seasonLines[stat][id] = val
		}
		fantasy[id] = player.FantasyScore

		out.Players = append(out.Players, player)
	}

	out.ForecastWinners = categoryWinners(forecastLines, playerIDs)
	out.SeasonWinners = categoryWinners(seasonLines, playerIDs)
	out.FantasyWinner = types.CategoryWinner{
		Winner: leader(fantasy, playerIDs),
		Values: fantasy,
	}
	return out, nil
}

// statMeans averages the forecast stats over the given games.
func statMeans(games []model.GameRecord) map[string]float64 {
	out := make(map[string]float64, len(model.ForecastStats))
	if len(games) == 0 {
		return out
	}
	for _, g := range games {
		out[model.StatPoints] += g.Points
		out[model.StatRebounds] += g.Rebounds
		out[model.StatAssists] += g.Assists
	}
	n := float64(len(games))
	for stat := range out {
		out[stat] /= n
	}
	return out
}

// statHighs records each forecast stat's single-game peak.
func statHighs(games []model.GameRecord) map[string]float64 {
	out := make(map[string]float64, len(model.ForecastStats))
	for _, g := range games {
		out[model.StatPoints] = max(out[model.StatPoints], g.Points)
		out[model.StatRebounds] = max(out[model.StatRebounds], g.Rebounds)
		out[model.StatAssists] = max(out[model.StatAssists], g.Assists)
	}
	return out
}

// statTrends labels each forecast stat up or down by weighing the last
// window of games against the window before it. Callers guard for at
// least two full windows.
func statTrends(games []model.GameRecord) map[string]string {
	recent := statMeans(tail(games, trendWindow))
	previous := statMeans(tail(games[:len(games)-trendWindow], trendWindow))

	out := make(map[string]string, len(recent))
	for stat, val := range recent {
		if val > previous[stat] {
			out[stat] = "up"
		} else {
			out[stat] = "down"
		}
	}
	return out
}

// categoryWinners picks a per-stat leader, ties going to the earlier
// player in the request order so the result stays deterministic.
func categoryWinners(lines map[string]map[string]float64, order []string) map[string]types.CategoryWinner {
	out := make(map[string]types.CategoryWinner, len(lines))
	for stat, values := range lines {
		out[stat] = types.CategoryWinner{
			Winner: leader(values, order),
			Values: values,
		}
	}
	return out
}

func leader(values map[string]float64, order []string) string {
	winner := ""
	best := 0.0
	for _, id := range order {
		val, ok := values[id]
		if !ok {
			continue
		}
		if winner == "" || val > best {
			winner = id
			best = val
		}
	}
	return winner
}

func tail(games []model.GameRecord, n int) []model.GameRecord {
	if len(games) <= n {
		return games
	}
	return games[len(games)-n:]
}
