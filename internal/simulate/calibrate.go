package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/hoopcast/hoopcast/internal/domain/forecast"
	"github.com/hoopcast/hoopcast/internal/domain/model"
	"github.com/hoopcast/hoopcast/pkg/logger"
)

const artifactFilePermission = 0600

// calibrateModels derives per-stat residual sigmas from the generated
// season and writes model artifacts to config.CalibrateDir. The residual
// stream is each game against the player's trailing mean, so the sigmas
// track the volatility the generator actually produced; the coefficients
// stay on the built-in baselines.
func calibrateModels(ctx context.Context, config *Config, games []Game) error {
	if config.CalibrateDir == "" {
		return nil
	}

	byPlayer := make(map[string][]Game)
	for _, g := range games {
		byPlayer[g.PlayerID] = append(byPlayer[g.PlayerID], g)
	}

	cals := make(map[string]*forecast.Calibration, len(model.ForecastStats))
	for _, stat := range model.ForecastStats {
		cals[stat] = &forecast.Calibration{}
	}

	for _, log := range byPlayer {
		sort.Slice(log, func(i, j int) bool { return log[i].Date < log[j].Date })

		sums := make(map[string]float64, len(model.ForecastStats))
		for i, g := range log {
			if i > 0 {
				for _, stat := range model.ForecastStats {
					predicted := sums[stat] / float64(i)
					cals[stat].Add(predicted - statValue(g, stat))
				}
			}
			for _, stat := range model.ForecastStats {
				sums[stat] += statValue(g, stat)
			}
		}
	}

	if err := os.MkdirAll(config.CalibrateDir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	version := "seed-calibrated-" + time.Now().Format("20060102")
	for _, stat := range model.ForecastStats {
		artifact, ok := forecast.DefaultSet()[stat].(*forecast.LinearModel)
		if !ok {
			return fmt.Errorf("baseline model for %s is not linear", stat)
		}
		artifact.ModelVersion = version
		artifact.Sigma = cals[stat].Sigma()

		raw, err := json.MarshalIndent(artifact, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal %s artifact: %w", stat, err)
		}
		path := filepath.Join(config.CalibrateDir, stat+"_model.json")
		if err := os.WriteFile(path, raw, artifactFilePermission); err != nil {
			return fmt.Errorf("failed to write %s artifact: %w", stat, err)
		}

		logger.Get().Info(ctx, "calibrated model artifact",
			logger.String("stat", stat),
			logger.String("path", path),
			logger.Int("residuals", cals[stat].Count()),
			logger.Float64("sigma", artifact.Sigma))
	}
	return nil
}

func statValue(g Game, stat string) float64 {
	switch stat {
	case model.StatPoints:
		return g.Points
	case model.StatRebounds:
		return g.Rebounds
	case model.StatAssists:
		return g.Assists
	default:
		return 0
	}
}
