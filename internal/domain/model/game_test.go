package model_test

import (
	"testing"
	"time"

	"github.com/hoopcast/hoopcast/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func validRecord() model.GameRecord {
	return model.GameRecord{
		RecordID:   "rec-1",
		PlayerID:   "player-1",
		PlayerName: "Test Player",
		Position:   "PG",
		Date:       time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		Opponent:   "BOS",
		IsHome:     true,
		Minutes:    34,
		Points:     22,
		Rebounds:   5,
		Assists:    7,
		Steals:     1,
		Blocks:     0,
		Turnovers:  3,
		FGPct:      0.48,
		FG3Pct:     0.37,
		FTPct:      0.85,
	}
}

func TestGameRecordValidate(t *testing.T) {
	Convey("Given a game record", t, func() {
		Convey("When all fields are valid", func() {
			So(validRecord().Validate(), ShouldBeNil)
		})

		Convey("When the record id is missing", func() {
			r := validRecord()
			r.RecordID = "  "
			So(r.Validate(), ShouldEqual, model.ErrMissingRecordID)
		})

		Convey("When the player id is missing", func() {
			r := validRecord()
			r.PlayerID = ""
			So(r.Validate(), ShouldEqual, model.ErrMissingPlayerID)
		})

		Convey("When the date is zero", func() {
			r := validRecord()
			r.Date = time.Time{}
			So(r.Validate(), ShouldEqual, model.ErrMissingDate)
		})

		Convey("When a counting stat is negative", func() {
			r := validRecord()
			r.Rebounds = -1
			So(r.Validate(), ShouldEqual, model.ErrNegativeStat)
		})

		Convey("When a shooting percentage exceeds 1", func() {
			r := validRecord()
			r.FTPct = 1.2
			So(r.Validate(), ShouldEqual, model.ErrBadPercentage)
		})
	})
}

func TestSeason(t *testing.T) {
	Convey("Given game dates around the season boundary", t, func() {
		Convey("An October game belongs to that year's season", func() {
			So(model.Season(time.Date(2024, time.October, 22, 0, 0, 0, 0, time.UTC)), ShouldEqual, 2024)
		})

		Convey("A March game belongs to the previous year's season", func() {
			So(model.Season(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)), ShouldEqual, 2024)
		})
	})
}

func TestFeatureVectorMap(t *testing.T) {
	Convey("Given a feature vector", t, func() {
		fv := model.FeatureVector{PtsAvg5: 21.5, IsHome: 1, RestDays: 2, OpponentRating: 112.3}
		m := fv.Map()

		Convey("Then canonical names map to the field values", func() {
			So(m["pts_avg_5"], ShouldEqual, 21.5)
			So(m["is_home"], ShouldEqual, 1)
			So(m["rest_days"], ShouldEqual, 2)
			So(m["opponent_rating"], ShouldEqual, 112.3)
		})

		Convey("Then the vector has its fixed shape", func() {
			So(len(m), ShouldEqual, 22)
		})
	})
}
