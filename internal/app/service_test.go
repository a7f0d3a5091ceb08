package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/hoopcast/hoopcast/internal/adapters/repository"
	service "github.com/hoopcast/hoopcast/internal/app"
	"github.com/hoopcast/hoopcast/internal/domain/draft"
	"github.com/hoopcast/hoopcast/internal/domain/features"
	"github.com/hoopcast/hoopcast/internal/domain/model"
)

func TestServiceLifecycle(t *testing.T) {
	convey.Convey("Given a new service", t, func() {
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithQueueSize(100),
			service.WithDedupeSize(1000),
		)

		convey.Convey("When starting the service", func() {
			err := svc.Start(context.Background())
			defer svc.Stop()

			convey.Convey("Then it should start successfully", func() {
				convey.So(err, convey.ShouldBeNil)
			})

			convey.Convey("Then starting again should be a no-op", func() {
				convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			})

			convey.Convey("Then the snapshot should reflect the configuration", func() {
				stats := svc.Stats()
				convey.So(stats.Started, convey.ShouldBeTrue)
				convey.So(stats.Workers, convey.ShouldEqual, 2)
				convey.So(stats.QueueCapacity, convey.ShouldEqual, 100)
				convey.So(stats.DedupeCapacity, convey.ShouldEqual, 1000)
				convey.So(stats.QueueLength, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When stopping a service that never started", func() {
			convey.Convey("Then it should not panic", func() {
				convey.So(svc.Stop, convey.ShouldNotPanic)
			})
		})
	})
}

func TestServiceIngest(t *testing.T) {
	convey.Convey("Given a running service", t, func() {
		ctx := context.Background()
		svc := newRunningService(ctx)
		defer svc.Stop()

		convey.Convey("When ingesting a valid record", func() {
			rec := gameRecord("rec-1", "player-1", "2024-11-01")
			queued, duplicate := svc.Ingest(ctx, rec)

			convey.Convey("Then it should be queued", func() {
				convey.So(queued, convey.ShouldBeTrue)
				convey.So(duplicate, convey.ShouldBeFalse)
				convey.So(waitForGames(svc, 1), convey.ShouldBeTrue)
			})

			convey.Convey("Then ingesting the same record id again should be flagged", func() {
				queued, duplicate := svc.Ingest(ctx, rec)
				convey.So(queued, convey.ShouldBeFalse)
				convey.So(duplicate, convey.ShouldBeTrue)
				convey.So(svc.Size(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When ingesting records for several players", func() {
			seedHistory(ctx, svc)

			convey.Convey("Then all players should become visible", func() {
				players, err := svc.Players(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(players), convey.ShouldEqual, 3)
				convey.So(players[0].PlayerID, convey.ShouldEqual, "center-1")
				convey.So(players[0].Games, convey.ShouldEqual, 6)
			})

			convey.Convey("Then a player's game log should read chronologically", func() {
				games, err := svc.PlayerGames(ctx, "guard-1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(games), convey.ShouldEqual, 6)
				for i := 1; i < len(games); i++ {
					convey.So(games[i].Date, convey.ShouldBeGreaterThan, games[i-1].Date)
				}
			})

			convey.Convey("Then an unknown player should return not found", func() {
				_, err := svc.PlayerGames(ctx, "ghost")
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})
	})
}

func TestServicePredict(t *testing.T) {
	convey.Convey("Given a service with seeded history", t, func() {
		ctx := context.Background()
		svc := newRunningService(ctx)
		defer svc.Stop()
		seedHistory(ctx, svc)

		target := model.GameContext{
			Date:     mustDate("2024-11-20"),
			IsHome:   true,
			Opponent: "BOS",
		}

		convey.Convey("When predicting for a known player and opponent", func() {
			pred, err := svc.Predict(ctx, "guard-1", target, 0)

			convey.Convey("Then it should produce bounded forecasts for every stat", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(pred.PlayerID, convey.ShouldEqual, "guard-1")
				convey.So(pred.Level, convey.ShouldAlmostEqual, 0.95)
				convey.So(len(pred.Forecasts), convey.ShouldEqual, len(model.ForecastStats))
				for _, f := range pred.Forecasts {
					convey.So(f.Lower, convey.ShouldBeLessThanOrEqualTo, f.Estimate)
					convey.So(f.Upper, convey.ShouldBeGreaterThanOrEqualTo, f.Estimate)
				}
				convey.So(pred.FantasyScore, convey.ShouldBeGreaterThan, 0)
			})
		})

		convey.Convey("When predicting at an explicit confidence level", func() {
			wide, err := svc.Predict(ctx, "guard-1", target, 0.99)
			narrow, err2 := svc.Predict(ctx, "guard-1", target, 0.80)

			convey.Convey("Then a higher level should widen the interval", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(err2, convey.ShouldBeNil)
				wideSpan := wide.Forecasts[0].Upper - wide.Forecasts[0].Lower
				narrowSpan := narrow.Forecasts[0].Upper - narrow.Forecasts[0].Lower
				convey.So(wideSpan, convey.ShouldBeGreaterThan, narrowSpan)
			})
		})

		convey.Convey("When predicting for an unknown player", func() {
			_, err := svc.Predict(ctx, "ghost", target, 0)

			convey.Convey("Then it should return not found", func() {
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When predicting against an unrated opponent", func() {
			_, err := svc.Predict(ctx, "guard-1", model.GameContext{
				Date:     mustDate("2024-11-20"),
				Opponent: "ATL",
			}, 0)

			convey.Convey("Then it should report the missing rating", func() {
				convey.So(errors.Is(err, features.ErrMissingReferenceData), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When predicting before any recorded game", func() {
			_, err := svc.Predict(ctx, "guard-1", model.GameContext{
				Date:     mustDate("2024-01-01"),
				Opponent: "BOS",
			}, 0)

			convey.Convey("Then it should report insufficient history", func() {
				convey.So(errors.Is(err, features.ErrInsufficientHistory), convey.ShouldBeTrue)
			})
		})
	})
}

func TestServiceRankings(t *testing.T) {
	convey.Convey("Given a service with seeded history", t, func() {
		ctx := context.Background()
		svc := newRunningService(ctx)
		defer svc.Stop()
		seedHistory(ctx, svc)

		convey.Convey("When ranking with the forecast source", func() {
			entries, err := svc.Rankings(ctx, 0, service.SourceForecast)

			convey.Convey("Then every player should rank in descending score order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(entries), convey.ShouldEqual, 3)
				for i, entry := range entries {
					convey.So(entry.Rank, convey.ShouldEqual, i+1)
					if i > 0 {
						convey.So(entry.FantasyScore, convey.ShouldBeLessThanOrEqualTo, entries[i-1].FantasyScore)
					}
				}
			})
		})

		convey.Convey("When ranking with the season source", func() {
			entries, err := svc.Rankings(ctx, 12, service.SourceSeason)

			convey.Convey("Then the high-usage guard should outrank the rest", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(entries), convey.ShouldEqual, 3)
				convey.So(entries[0].PlayerID, convey.ShouldEqual, "guard-1")
				convey.So(entries[0].VOR, convey.ShouldBeGreaterThanOrEqualTo, entries[1].VOR)
			})
		})

		convey.Convey("When ranking with an unknown source", func() {
			_, err := svc.Rankings(ctx, 12, "vibes")

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, service.ErrUnknownSource), convey.ShouldBeTrue)
			})
		})
	})
}

func TestServiceDraft(t *testing.T) {
	convey.Convey("Given a service with seeded history", t, func() {
		ctx := context.Background()
		svc := newRunningService(ctx)
		defer svc.Stop()
		seedHistory(ctx, svc)

		convey.Convey("When requesting a recommendation with nobody drafted", func() {
			rec, err := svc.Recommend(ctx, nil, nil, nil, 0)

			convey.Convey("Then it should pick the top value player", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.Recommended.PlayerID, convey.ShouldNotBeEmpty)
				convey.So(rec.Reason, convey.ShouldNotBeEmpty)
				convey.So(len(rec.Alternatives), convey.ShouldBeLessThanOrEqualTo, 3)
			})
		})

		convey.Convey("When the top pick is already drafted", func() {
			first, err := svc.Recommend(ctx, nil, nil, nil, 0)
			convey.So(err, convey.ShouldBeNil)

			second, err := svc.Recommend(ctx, []string{first.Recommended.PlayerID}, nil, nil, 0)

			convey.Convey("Then the recommendation should move on", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(second.Recommended.PlayerID, convey.ShouldNotEqual, first.Recommended.PlayerID)
			})
		})

		convey.Convey("When the caller supplies explicit needs", func() {
			rec, err := svc.Recommend(ctx, nil, nil, map[string]int{"C": 1}, 0)

			convey.Convey("Then the need should steer the pick", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rec.Recommended.PlayerID, convey.ShouldEqual, "center-1")
				convey.So(rec.Reason, convey.ShouldEqual, "fills C need")
			})
		})

		convey.Convey("When every player is drafted", func() {
			_, err := svc.Recommend(ctx, []string{"guard-1", "forward-1", "center-1"}, nil, nil, 0)

			convey.Convey("Then it should report an exhausted pool", func() {
				convey.So(errors.Is(err, draft.ErrNoPlayersAvailable), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When listing best available picks", func() {
			entries, err := svc.BestAvailable(ctx, []string{"guard-1"}, 10, 0)

			convey.Convey("Then drafted players should be excluded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(entries), convey.ShouldEqual, 2)
				for _, entry := range entries {
					convey.So(entry.PlayerID, convey.ShouldNotEqual, "guard-1")
				}
			})
		})

		convey.Convey("When summarizing positional scarcity", func() {
			summary, err := svc.Scarcity(ctx, []string{"center-1"}, 0)

			convey.Convey("Then the drained position should read critical", func() {
				convey.So(err, convey.ShouldBeNil)

				byPosition := map[string]int{}
				for _, p := range summary {
					byPosition[p.Position] = p.Remaining
					if p.Position == "C" {
						convey.So(p.Level, convey.ShouldEqual, draft.ScarcityCritical)
					}
				}
				convey.So(byPosition["C"], convey.ShouldEqual, 0)
				convey.So(byPosition["PG"], convey.ShouldEqual, 1)
			})
		})
	})
}

func TestServiceCompare(t *testing.T) {
	convey.Convey("Given a service with seeded history", t, func() {
		ctx := context.Background()
		svc := newRunningService(ctx)
		defer svc.Stop()
		seedHistory(ctx, svc)

		convey.Convey("When comparing the guard and the center", func() {
			cmp, err := svc.Compare(ctx, []string{"guard-1", "center-1"})

			convey.Convey("Then each category should name its leader", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(cmp.Players), convey.ShouldEqual, 2)
				convey.So(cmp.Players[0].PlayerID, convey.ShouldEqual, "guard-1")
				convey.So(cmp.Players[0].GamesPlayed, convey.ShouldEqual, 6)

				convey.So(cmp.ForecastWinners[model.StatPoints].Winner, convey.ShouldEqual, "guard-1")
				convey.So(cmp.ForecastWinners[model.StatRebounds].Winner, convey.ShouldEqual, "center-1")
				convey.So(cmp.SeasonWinners[model.StatAssists].Winner, convey.ShouldEqual, "guard-1")
				convey.So(cmp.FantasyWinner.Winner, convey.ShouldEqual, "guard-1")
			})

			convey.Convey("Then each column should carry bounded forecasts and averages", func() {
				convey.So(err, convey.ShouldBeNil)
				for _, p := range cmp.Players {
					convey.So(len(p.Forecasts), convey.ShouldEqual, len(model.ForecastStats))
					for _, f := range p.Forecasts {
						convey.So(f.Lower, convey.ShouldBeLessThanOrEqualTo, f.Estimate)
						convey.So(f.Upper, convey.ShouldBeGreaterThanOrEqualTo, f.Estimate)
					}
					convey.So(p.SeasonAvg[model.StatPoints], convey.ShouldBeGreaterThan, 0)
					convey.So(p.SeasonHigh[model.StatPoints], convey.ShouldBeGreaterThanOrEqualTo, p.SeasonAvg[model.StatPoints])
				}
			})

			convey.Convey("Then six games are too few to call a trend", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cmp.Players[0].Trend, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When comparing a single player", func() {
			_, err := svc.Compare(ctx, []string{"guard-1"})

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, service.ErrComparisonSize), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When comparing four players", func() {
			_, err := svc.Compare(ctx, []string{"guard-1", "forward-1", "center-1", "guard-2"})

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, service.ErrComparisonSize), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When comparing against an unknown player", func() {
			_, err := svc.Compare(ctx, []string{"guard-1", "ghost"})

			convey.Convey("Then it should return not found", func() {
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})
	})
}

// Helpers.

func newRunningService(ctx context.Context) *service.Service {
	svc := service.New(
		service.WithWorkerCount(2),
		service.WithQueueSize(1000),
		service.WithDedupeSize(10_000),
		service.WithOpponentRatings(map[string]float64{
			"BOS": 1.12,
			"WAS": 0.91,
		}),
	)
	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
	return svc
}

// seedHistory ingests six November 2024 games for three players with
// clearly separated production levels, then waits for the workers.
func seedHistory(ctx context.Context, svc *service.Service) {
	players := []struct {
		id, name, position string
		points, rebounds   float64
		assists            float64
	}{
		{"guard-1", "Test Guard", "PG", 30, 5, 9},
		{"forward-1", "Test Forward", "SF", 20, 8, 4},
		{"center-1", "Test Center", "C", 14, 12, 2},
	}

	n := 0
	for _, p := range players {
		for i := 0; i < 6; i++ {
			day := mustDate("2024-11-01").AddDate(0, 0, i*2)
			opponent := "BOS"
			if i%2 == 0 {
				opponent = "WAS"
			}
			queued, _ := svc.Ingest(ctx, model.GameRecord{
				RecordID:   fmt.Sprintf("%s-g%d", p.id, i),
				PlayerID:   p.id,
				PlayerName: p.name,
				Position:   p.position,
				Date:       day,
				Opponent:   opponent,
				IsHome:     i%2 == 0,
				Minutes:    34,
				Points:     p.points + float64(i%3),
				Rebounds:   p.rebounds,
				Assists:    p.assists,
				Steals:     1,
				Blocks:     0.5,
				Turnovers:  2,
				FGPct:      0.48,
				FG3Pct:     0.36,
				FTPct:      0.82,
			})
			if queued {
				n++
			}
		}
	}

	if !waitForGames(svc, n) {
		panic("timed out waiting for seeded games to store")
	}
}

// waitForGames polls the snapshot until the store holds at least n games.
func waitForGames(svc *service.Service, n int) bool {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if svc.Stats().TotalGames >= n {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func gameRecord(recordID, playerID, date string) model.GameRecord {
	return model.GameRecord{
		RecordID:   recordID,
		PlayerID:   playerID,
		PlayerName: "Player " + playerID,
		Position:   "PG",
		Date:       mustDate(date),
		Opponent:   "BOS",
		IsHome:     true,
		Minutes:    30,
		Points:     18,
		Rebounds:   4,
		Assists:    6,
		Steals:     1,
		Blocks:     0,
		Turnovers:  2,
		FGPct:      0.45,
		FG3Pct:     0.35,
		FTPct:      0.8,
	}
}

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
