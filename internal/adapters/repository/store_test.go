package repository_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/hoopcast/hoopcast/internal/adapters/repository"
	"github.com/hoopcast/hoopcast/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newStores(t *testing.T) map[string]func() repository.Store {
	t.Helper()
	return map[string]func() repository.Store{
		"memory": func() repository.Store { return repository.NewMemoryStore() },
		"sqlite": func() repository.Store {
			sqlStore, err := repository.NewSQLStore(filepath.Join(t.TempDir(), "games.db"))
			if err != nil {
				t.Fatalf("failed to open sqlite store: %v", err)
			}
			t.Cleanup(func() { _ = sqlStore.Close() })
			return sqlStore
		},
	}
}

func record(id, playerID string, date time.Time, points float64) model.GameRecord {
	return model.GameRecord{
		RecordID:   id,
		PlayerID:   playerID,
		PlayerName: "Player " + playerID,
		Position:   "PG",
		Date:       date,
		Opponent:   "BOS",
		IsHome:     true,
		Minutes:    34,
		Points:     points,
		Rebounds:   5,
		Assists:    7,
		Steals:     1,
		Blocks:     0,
		Turnovers:  2,
		FGPct:      0.48,
		FG3Pct:     0.37,
		FTPct:      0.85,
	}
}

func TestStoreAppendAndHistory(t *testing.T) {
	for name, newStore := range newStores(t) {
		Convey(fmt.Sprintf("Given an empty %s store", name), t, func() {
			store := newStore()
			ctx := context.Background()
			nov := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)

			Convey("When records arrive out of date order", func() {
				So(store.Append(ctx, record("r2", "p1", nov.AddDate(0, 0, 2), 20)), ShouldBeNil)
				So(store.Append(ctx, record("r1", "p1", nov, 10)), ShouldBeNil)
				So(store.Append(ctx, record("r3", "p1", nov.AddDate(0, 0, 4), 30)), ShouldBeNil)

				Convey("Then the history reads back in chronological order", func() {
					log, err := store.History(ctx, "p1")
					So(err, ShouldBeNil)
					So(len(log), ShouldEqual, 3)
					So(log[0].RecordID, ShouldEqual, "r1")
					So(log[1].RecordID, ShouldEqual, "r2")
					So(log[2].RecordID, ShouldEqual, "r3")
					So(log[0].Points, ShouldAlmostEqual, 10)
					So(log[0].IsHome, ShouldBeTrue)
					So(log[0].FG3Pct, ShouldAlmostEqual, 0.37)
				})
			})

			Convey("When the same record id is appended twice", func() {
				So(store.Append(ctx, record("dup", "p2", nov, 10)), ShouldBeNil)
				err := store.Append(ctx, record("dup", "p2", nov, 10))

				Convey("Then the duplicate is rejected", func() {
					So(errors.Is(err, repository.ErrDuplicateRecord), ShouldBeTrue)
				})
			})

			Convey("When asking for an unknown player", func() {
				_, err := store.History(ctx, "ghost")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	}
}

func TestStorePlayersAndCounts(t *testing.T) {
	for name, newStore := range newStores(t) {
		Convey(fmt.Sprintf("Given a %s store with two players", name), t, func() {
			store := newStore()
			ctx := context.Background()
			nov := time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC)
			So(store.Append(ctx, record("a1", "alpha", nov, 10)), ShouldBeNil)
			So(store.Append(ctx, record("a2", "alpha", nov.AddDate(0, 0, 2), 20)), ShouldBeNil)
			So(store.Append(ctx, record("b1", "beta", nov, 15)), ShouldBeNil)

			Convey("Then players list in id order with game counts", func() {
				players, err := store.Players(ctx)
				So(err, ShouldBeNil)
				So(len(players), ShouldEqual, 2)
				So(players[0].PlayerID, ShouldEqual, "alpha")
				So(players[0].GameCount, ShouldEqual, 2)
				So(players[0].Name, ShouldEqual, "Player alpha")
				So(players[1].PlayerID, ShouldEqual, "beta")
				So(players[1].GameCount, ShouldEqual, 1)
			})

			Convey("Then counts cover players and games", func() {
				players, games, err := store.Counts(ctx)
				So(err, ShouldBeNil)
				So(players, ShouldEqual, 2)
				So(games, ShouldEqual, 3)
			})
		})
	}
}

func TestStoreAverages(t *testing.T) {
	for name, newStore := range newStores(t) {
		Convey(fmt.Sprintf("Given a %s store with games across seasons", name), t, func() {
			store := newStore()
			ctx := context.Background()
			// 2024-25 season games.
			So(store.Append(ctx, record("s1", "p1", time.Date(2024, time.November, 1, 0, 0, 0, 0, time.UTC), 10)), ShouldBeNil)
			So(store.Append(ctx, record("s2", "p1", time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), 20)), ShouldBeNil)
			// Prior season game.
			So(store.Append(ctx, record("s0", "p1", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), 40)), ShouldBeNil)

			Convey("Then season averages cover only that season", func() {
				line, n, err := store.Averages(ctx, "p1", 2024)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
				So(line[model.StatPoints], ShouldAlmostEqual, 15)
				So(line[model.StatRebounds], ShouldAlmostEqual, 5)
			})

			Convey("Then career averages cover the full log", func() {
				line, n, err := store.Averages(ctx, "p1", 0)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 3)
				So(line[model.StatPoints], ShouldAlmostEqual, 70.0/3)
			})

			Convey("Then a season with no games yields a zero count", func() {
				line, n, err := store.Averages(ctx, "p1", 2019)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
				So(line, ShouldBeNil)
			})

			Convey("Then an unknown player is reported", func() {
				_, _, err := store.Averages(ctx, "ghost", 2024)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})
	}
}
