package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/hoopcast/hoopcast/internal/adapters/http/api"
	app "github.com/hoopcast/hoopcast/internal/app"
	"github.com/hoopcast/hoopcast/internal/config"
)

func TestServerConfiguration(t *testing.T) {
	convey.Convey("Given the server environment", t, func() {
		convey.Convey("When forecasting settings come from the environment", func() {
			_ = os.Setenv("HOOPCAST_ADDR", ":9180")
			_ = os.Setenv("HOOPCAST_LEAGUE_SIZE", "10")
			_ = os.Setenv("HOOPCAST_CONFIDENCE_LEVEL", "0.9")
			_ = os.Setenv("HOOPCAST_MAX_RANKING_LIMIT", "250")
			_ = os.Setenv("HOOPCAST_STORE_BACKEND", "memory")
			defer func() {
				_ = os.Unsetenv("HOOPCAST_ADDR")
				_ = os.Unsetenv("HOOPCAST_LEAGUE_SIZE")
				_ = os.Unsetenv("HOOPCAST_CONFIDENCE_LEVEL")
				_ = os.Unsetenv("HOOPCAST_MAX_RANKING_LIMIT")
				_ = os.Unsetenv("HOOPCAST_STORE_BACKEND")
			}()

			cfg, err := config.Load(context.Background())

			convey.Convey("Then the forecasting settings should load", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9180")
				convey.So(cfg.LeagueSize, convey.ShouldEqual, 10)
				convey.So(cfg.ConfidenceLevel, convey.ShouldAlmostEqual, 0.9)
				convey.So(cfg.MaxRankingLimit, convey.ShouldEqual, 250)
				convey.So(cfg.StoreBackend, convey.ShouldEqual, config.StoreMemory)
			})
		})

		convey.Convey("When the listen address is blanked out", func() {
			_ = os.Setenv("HOOPCAST_ADDR", "")
			defer func() { _ = os.Unsetenv("HOOPCAST_ADDR") }()

			cfg, err := config.Load(context.Background())

			convey.Convey("Then loading should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When defaults carry the roster and weight tables", func() {
			cfg := config.New()

			convey.Convey("Then draft derivation has slots to work from", func() {
				convey.So(len(cfg.RosterSlots), convey.ShouldBeGreaterThan, 0)
				convey.So(cfg.LeagueSize, convey.ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestServerWiring(t *testing.T) {
	convey.Convey("Given the wiring main performs", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg := config.New()
		svc := app.New(
			app.WithWorkerCount(2),
			app.WithQueueSize(cfg.QueueSize),
			app.WithDedupeSize(cfg.DedupeSize),
			app.WithStoreBackend(cfg.StoreBackend, cfg.DBPath),
			app.WithLeagueSize(cfg.LeagueSize),
			app.WithConfidenceLevel(cfg.ConfidenceLevel),
			app.WithRestDayCap(cfg.RestDayCap),
			app.WithScoringWeights(cfg.ScoringWeights),
			app.WithOpponentRatings(cfg.OpponentRatings),
			app.WithRosterSlots(cfg.RosterSlots),
		)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(svc, svc, cfg.MaxRankingLimit).Register(ctx, mux)

		convey.Convey("When hitting the stats route", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.Convey("Then the snapshot should show a running service", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

				var stats app.Stats
				convey.So(json.Unmarshal(w.Body.Bytes(), &stats), convey.ShouldBeNil)
				convey.So(stats.Started, convey.ShouldBeTrue)
				convey.So(stats.Workers, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When hitting the health route", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.Convey("Then the registry should serve", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background gauge updaters", t, func() {
		convey.Convey("When their context expires", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.Convey("Then the system updater should return", func() {
				convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
			})

			convey.Convey("Then the service updater should return", func() {
				svc := app.New()
				convey.So(func() { startServiceMetricsUpdater(ctx, svc) }, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When pushing one round of gauges", func() {
			convey.Convey("Then the system push should not panic", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})

			convey.Convey("Then an unstarted service should push zeroes safely", func() {
				svc := app.New()
				convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
			})
		})
	})
}
