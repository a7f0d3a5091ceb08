package simulate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/hoopcast/hoopcast/internal/domain/forecast"
	"github.com/hoopcast/hoopcast/internal/domain/model"
)

func TestCalibrateModels(t *testing.T) {
	convey.Convey("Given a generated season of games", t, func() {
		config := &Config{
			NumPlayers:     8,
			GamesPerPlayer: 12,
			Workers:        2,
			CalibrateDir:   t.TempDir(),
		}
		games, err := generateGames(context.Background(), config, &Stats{})
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When calibrating model artifacts from it", func() {
			err := calibrateModels(context.Background(), config, games)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then one artifact file should exist per forecast stat", func() {
				for _, stat := range model.ForecastStats {
					_, statErr := os.Stat(filepath.Join(config.CalibrateDir, stat+"_model.json"))
					convey.So(statErr, convey.ShouldBeNil)
				}
			})

			convey.Convey("Then the artifacts should load back as a usable model set", func() {
				set, loadErr := forecast.LoadArtifacts(config.CalibrateDir)
				convey.So(loadErr, convey.ShouldBeNil)
				convey.So(len(set), convey.ShouldEqual, len(model.ForecastStats))

				for _, stat := range model.ForecastStats {
					convey.So(set[stat].ResidualSigma(), convey.ShouldBeGreaterThan, 0)
					convey.So(strings.HasPrefix(set[stat].Version(), "seed-calibrated-"), convey.ShouldBeTrue)
				}
			})
		})

		convey.Convey("When no calibration directory is configured", func() {
			blank := &Config{NumPlayers: config.NumPlayers, GamesPerPlayer: config.GamesPerPlayer}

			convey.Convey("Then calibration should be a no-op", func() {
				convey.So(calibrateModels(context.Background(), blank, games), convey.ShouldBeNil)
			})
		})
	})
}
