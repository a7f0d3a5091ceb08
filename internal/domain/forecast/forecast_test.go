package forecast_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hoopcast/hoopcast/internal/domain/forecast"
	"github.com/hoopcast/hoopcast/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLinearModelPredict(t *testing.T) {
	Convey("Given a linear model", t, func() {
		m := &forecast.LinearModel{
			Stat:         model.StatPoints,
			ModelVersion: "test-1",
			Intercept:    2.0,
			Coefficients: map[string]float64{
				"pts_avg_5":      0.5,
				"season_pts_avg": 0.4,
				"is_home":        1.0,
			},
			Sigma: 5.0,
		}

		Convey("When predicting from a feature vector", func() {
			fv := model.FeatureVector{PtsAvg5: 20, SeasonPtsAvg: 18, IsHome: 1}

			Convey("Then it returns the linear combination", func() {
				So(m.Predict(fv), ShouldAlmostEqual, 2.0+0.5*20+0.4*18+1.0)
			})
		})

		Convey("When the combination would go negative", func() {
			neg := &forecast.LinearModel{
				Stat:         model.StatPoints,
				Intercept:    -10,
				Coefficients: map[string]float64{"pts_avg_5": 0.1},
				Sigma:        5,
			}

			Convey("Then the estimate is floored at zero", func() {
				So(neg.Predict(model.FeatureVector{PtsAvg5: 1}), ShouldEqual, 0)
			})
		})
	})
}

func TestSetForecast(t *testing.T) {
	Convey("Given the default model set", t, func() {
		set := forecast.DefaultSet()
		fv := model.FeatureVector{
			PtsAvg5: 24, PtsAvg10: 22, SeasonPtsAvg: 23,
			RebAvg5: 7, RebAvg10: 6.5, SeasonRebAvg: 6.8,
			AstAvg5: 5, AstAvg10: 5.5, SeasonAstAvg: 5.2,
			MinAvg10: 34, IsHome: 1, RestDays: 2,
			FGPctAvg10: 0.49, OpponentRating: 112,
		}

		Convey("When forecasting all stats", func() {
			forecasts, err := set.ForecastAll(fv)
			So(err, ShouldBeNil)

			Convey("Then one forecast per stat comes back in fixed order", func() {
				So(len(forecasts), ShouldEqual, 3)
				So(forecasts[0].Stat, ShouldEqual, model.StatPoints)
				So(forecasts[1].Stat, ShouldEqual, model.StatRebounds)
				So(forecasts[2].Stat, ShouldEqual, model.StatAssists)
			})

			Convey("Then every forecast carries a positive sigma", func() {
				for _, f := range forecasts {
					So(f.ResidualSigma, ShouldBeGreaterThan, 0)
					So(f.Estimate, ShouldBeGreaterThanOrEqualTo, 0)
				}
			})
		})

		Convey("When forecasting an unknown stat", func() {
			_, err := set.Forecast("triple_doubles", fv)
			So(errors.Is(err, forecast.ErrUnknownStat), ShouldBeTrue)
		})
	})
}

func TestInterval(t *testing.T) {
	Convey("Given a forecast of 20 with sigma 5", t, func() {
		f := model.StatForecast{Stat: model.StatPoints, Estimate: 20, ResidualSigma: 5}

		Convey("When deriving the 95% interval", func() {
			ci, err := forecast.Interval(f, 0.95)
			So(err, ShouldBeNil)

			Convey("Then the bounds match the 1.96-sigma band", func() {
				So(ci.Lower, ShouldAlmostEqual, 10.2, 0.01)
				So(ci.Upper, ShouldAlmostEqual, 29.8, 0.01)
				So(ci.Level, ShouldEqual, 0.95)
			})
		})

		Convey("When deriving intervals at increasing levels", func() {
			levels := []float64{0.5, 0.68, 0.8, 0.9, 0.95, 0.99}
			prev := 0.0
			for _, level := range levels {
				ci, err := forecast.Interval(f, level)
				So(err, ShouldBeNil)
				width := ci.Upper - ci.Lower

				Convey("Then widths never shrink at level "+floatLabel(level), func() {
					So(width, ShouldBeGreaterThanOrEqualTo, prev)
				})
				prev = width
			}
		})

		Convey("When recovering sigma from the 95% bounds", func() {
			ci95, err := forecast.Interval(f, 0.95)
			So(err, ShouldBeNil)
			z95 := (ci95.Upper - f.Estimate) / f.ResidualSigma
			recovered := (ci95.Upper - f.Estimate) / z95

			rederived, err := forecast.Interval(model.StatForecast{
				Stat:          f.Stat,
				Estimate:      f.Estimate,
				ResidualSigma: recovered,
			}, 0.68)
			So(err, ShouldBeNil)

			direct, err := forecast.Interval(f, 0.68)
			So(err, ShouldBeNil)

			Convey("Then rederived 68% bounds match the direct ones", func() {
				So(rederived.Lower, ShouldAlmostEqual, direct.Lower, 1e-9)
				So(rederived.Upper, ShouldAlmostEqual, direct.Upper, 1e-9)
			})
		})

		Convey("When the lower bound would go negative", func() {
			small := model.StatForecast{Stat: model.StatAssists, Estimate: 1, ResidualSigma: 4}
			ci, err := forecast.Interval(small, 0.95)
			So(err, ShouldBeNil)
			So(ci.Lower, ShouldEqual, 0)
		})

		Convey("When the level is out of range", func() {
			for _, bad := range []float64{0, 1, -0.5, 1.5} {
				_, err := forecast.Interval(f, bad)
				So(errors.Is(err, forecast.ErrBadLevel), ShouldBeTrue)
			}
		})
	})
}

func floatLabel(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestLoadArtifacts(t *testing.T) {
	Convey("Given a directory of model artifacts", t, func() {
		dir := t.TempDir()
		write := func(stat string, m forecast.LinearModel) {
			raw, err := json.Marshal(m)
			So(err, ShouldBeNil)
			So(os.WriteFile(filepath.Join(dir, stat+"_model.json"), raw, 0o644), ShouldBeNil)
		}
		base := forecast.LinearModel{
			ModelVersion: "v2",
			Intercept:    1,
			Coefficients: map[string]float64{"pts_avg_5": 0.9},
			Sigma:        4.2,
		}
		for _, stat := range model.ForecastStats {
			m := base
			m.Stat = stat
			write(stat, m)
		}

		Convey("When all three artifacts exist", func() {
			set, err := forecast.LoadArtifacts(dir)
			So(err, ShouldBeNil)

			Convey("Then every forecast stat is covered", func() {
				for _, stat := range model.ForecastStats {
					So(set[stat], ShouldNotBeNil)
					So(set[stat].Version(), ShouldEqual, "v2")
					So(set[stat].ResidualSigma(), ShouldAlmostEqual, 4.2)
				}
			})
		})

		Convey("When one artifact is missing", func() {
			So(os.Remove(filepath.Join(dir, "assists_model.json")), ShouldBeNil)
			_, err := forecast.LoadArtifacts(dir)
			So(errors.Is(err, forecast.ErrArtifactMissing), ShouldBeTrue)
		})

		Convey("When an artifact has a non-positive sigma", func() {
			m := base
			m.Stat = model.StatPoints
			m.Sigma = 0
			write(model.StatPoints, m)
			_, err := forecast.LoadArtifacts(dir)
			So(errors.Is(err, forecast.ErrArtifactInvalid), ShouldBeTrue)
		})
	})
}

func TestCalibration(t *testing.T) {
	Convey("Given a residual stream", t, func() {
		var c forecast.Calibration
		for _, r := range []float64{2, -2, 4, -4} {
			c.Add(r)
		}

		Convey("Then sigma matches the sample standard deviation", func() {
			// mean 0, sum of squares 40, variance 40/3
			So(c.Count(), ShouldEqual, 4)
			So(c.Sigma(), ShouldAlmostEqual, 3.6514837, 1e-6)
		})

		Convey("And with fewer than two residuals it stays at the floor", func() {
			var lone forecast.Calibration
			lone.Add(5)
			So(lone.Sigma(), ShouldAlmostEqual, 1e-3)
		})
	})
}
