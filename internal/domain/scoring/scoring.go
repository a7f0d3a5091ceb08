// Package scoring aggregates per-stat values into a single fantasy score.
package scoring

import "github.com/hoopcast/hoopcast/internal/domain/model"

// DefaultWeights is the standard-league category weight table. Turnovers
// carry negative weight.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		model.StatPoints:    1.0,
		model.StatRebounds:  1.2,
		model.StatAssists:   1.5,
		model.StatSteals:    3.0,
		model.StatBlocks:    3.0,
		model.StatTurnovers: -1.0,
	}
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights replaces the category weight table. The map is copied to
// avoid external modifications; zero-weight entries are dropped.
func WithWeights(weights map[string]float64) Option {
	return func(s *Scorer) {
		if len(weights) == 0 {
			return
		}
		s.weights = make(map[string]float64, len(weights))
		for stat, w := range weights {
			if w != 0 {
				s.weights[stat] = w
			}
		}
	}
}

// Scorer computes fantasy scores from a fixed category weight table. The
// table is configuration, not a per-call input: changing it changes all
// downstream rankings consistently. A Scorer is safe for concurrent use.
type Scorer struct {
	weights map[string]float64
}

// NewScorer creates a scorer with the default weight table unless
// overridden by options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score computes Σ weight[stat]·value[stat] over the weight table. Stats
// absent from the line contribute nothing; the same table applies whether
// the line holds forecast estimates or realized season averages.
func (s *Scorer) Score(line model.StatLine) float64 {
	var total float64
	for stat, w := range s.weights {
		if v, ok := line[stat]; ok {
			total += w * v
		}
	}
	return total
}

// Weights returns a copy of the active weight table.
func (s *Scorer) Weights() map[string]float64 {
	out := make(map[string]float64, len(s.weights))
	for stat, w := range s.weights {
		out[stat] = w
	}
	return out
}
