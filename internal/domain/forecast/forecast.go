// Package forecast holds the per-stat forecasting models and the
// confidence-interval derivation applied to their output.
//
// A model is consumed through the trained-model contract: given a feature
// vector it yields a point estimate, and it carries a residual sigma fixed
// at calibration time. Everything else (interval widths at any requested
// level) is derived from those two numbers.
package forecast

import (
	"fmt"
	"math"

	"github.com/hoopcast/hoopcast/internal/domain/model"
)

// Model is the trained-model contract for one stat.
type Model interface {
	// Predict returns the point estimate for the feature vector.
	Predict(fv model.FeatureVector) float64

	// ResidualSigma is the standard deviation of the model's historical
	// prediction error, fixed for a given model version.
	ResidualSigma() float64

	// Version identifies the trained artifact.
	Version() string
}

// Set holds one model per forecast stat.
type Set map[string]Model

// Forecast runs the named stat's model over the feature vector.
func (s Set) Forecast(stat string, fv model.FeatureVector) (model.StatForecast, error) {
	m, ok := s[stat]
	if !ok {
		return model.StatForecast{}, fmt.Errorf("%w: %q", ErrUnknownStat, stat)
	}
	return model.StatForecast{
		Stat:          stat,
		Estimate:      m.Predict(fv),
		ResidualSigma: m.ResidualSigma(),
	}, nil
}

// ForecastAll runs every forecast stat's model, in the fixed stat order.
func (s Set) ForecastAll(fv model.FeatureVector) ([]model.StatForecast, error) {
	out := make([]model.StatForecast, 0, len(model.ForecastStats))
	for _, stat := range model.ForecastStats {
		f, err := s.Forecast(stat, fv)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// LinearModel implements Model as intercept + Σ coefficient·feature.
// Coefficients are keyed by the canonical feature names.
type LinearModel struct {
	Stat         string             `json:"stat"`
	ModelVersion string             `json:"version"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
	Sigma        float64            `json:"residual_sigma"`
}

// Predict computes the linear combination over the feature vector. The
// estimate is floored at zero: counting stats cannot be negative.
func (m *LinearModel) Predict(fv model.FeatureVector) float64 {
	values := fv.Map()
	est := m.Intercept
	for name, coef := range m.Coefficients {
		est += coef * values[name]
	}
	return math.Max(0, est)
}

// ResidualSigma returns the calibration-time residual spread.
func (m *LinearModel) ResidualSigma() float64 { return m.Sigma }

// Version returns the artifact version string.
func (m *LinearModel) Version() string { return m.ModelVersion }

func (m *LinearModel) validate() error {
	switch {
	case m.Stat == "":
		return fmt.Errorf("%w: missing stat", ErrArtifactInvalid)
	case len(m.Coefficients) == 0:
		return fmt.Errorf("%w: %s has no coefficients", ErrArtifactInvalid, m.Stat)
	case m.Sigma <= 0:
		return fmt.Errorf("%w: %s residual_sigma must be positive", ErrArtifactInvalid, m.Stat)
	}
	return nil
}
