package forecast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hoopcast/hoopcast/internal/domain/model"
)

// defaultVersion tags the built-in baseline artifacts.
const defaultVersion = "baseline-1.0.0"

// LoadArtifacts reads one JSON artifact per forecast stat from dir
// (<stat>_model.json). All three must be present and valid; a partial set
// would silently mix model versions.
func LoadArtifacts(dir string) (Set, error) {
	set := make(Set, len(model.ForecastStats))
	for _, stat := range model.ForecastStats {
		path := filepath.Join(dir, stat+"_model.json")
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, path)
			}
			return nil, fmt.Errorf("read artifact %s: %w", path, err)
		}
		var m LinearModel
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrArtifactInvalid, path, err)
		}
		if m.Stat == "" {
			m.Stat = stat
		}
		if m.Stat != stat {
			return nil, fmt.Errorf("%w: %s declares stat %q", ErrArtifactInvalid, path, m.Stat)
		}
		if err := m.validate(); err != nil {
			return nil, err
		}
		set[stat] = &m
	}
	return set, nil
}

// DefaultSet returns built-in baseline models so the service can run
// without artifact files. Each blends recent form with the season baseline
// and applies small context adjustments; sigmas come from baseline
// calibration against held-out game logs.
func DefaultSet() Set {
	return Set{
		model.StatPoints: &LinearModel{
			Stat:         model.StatPoints,
			ModelVersion: defaultVersion,
			Intercept:    1.8,
			Coefficients: map[string]float64{
				"pts_avg_5":       0.38,
				"pts_avg_10":      0.27,
				"season_pts_avg":  0.30,
				"is_home":         0.65,
				"rest_days":       0.12,
				"fg_pct_avg_10":   2.1,
				"opponent_rating": -0.022,
			},
			Sigma: 7.1,
		},
		model.StatRebounds: &LinearModel{
			Stat:         model.StatRebounds,
			ModelVersion: defaultVersion,
			Intercept:    0.5,
			Coefficients: map[string]float64{
				"reb_avg_5":       0.40,
				"reb_avg_10":      0.26,
				"season_reb_avg":  0.29,
				"is_home":         0.18,
				"min_avg_10":      0.012,
				"opponent_rating": -0.004,
			},
			Sigma: 2.9,
		},
		model.StatAssists: &LinearModel{
			Stat:         model.StatAssists,
			ModelVersion: defaultVersion,
			Intercept:    0.3,
			Coefficients: map[string]float64{
				"ast_avg_5":       0.41,
				"ast_avg_10":      0.25,
				"season_ast_avg":  0.30,
				"is_home":         0.14,
				"min_avg_10":      0.008,
				"opponent_rating": -0.003,
			},
			Sigma: 2.2,
		},
	}
}
