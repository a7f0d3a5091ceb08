package simulate

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/hoopcast/hoopcast/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	archetypeCount     = 5
)

// Season schedule constants.
const (
	seasonStartMonth = time.October
	seasonStartDay   = 22
	minGameGapDays   = 1
	maxGameGapDays   = 3
)

// positions cycles through the five lineup slots.
var positions = []string{"PG", "SG", "SF", "PF", "C"}

// opponents is a pool of team abbreviations games are scheduled against.
var opponents = []string{
	"ATL", "BOS", "BKN", "CHA", "CHI", "CLE", "DAL", "DEN", "DET", "GSW",
	"HOU", "IND", "LAC", "LAL", "MEM", "MIA", "MIL", "MIN", "NOP", "NYK",
	"OKC", "ORL", "PHI", "PHX", "POR", "SAC", "SAS", "TOR", "UTA", "WAS",
}

// archetype describes the stat baseline a generated player plays around.
type archetype struct {
	name      string
	minutes   float64
	points    float64
	rebounds  float64
	assists   float64
	steals    float64
	blocks    float64
	turnovers float64
	fgPct     float64
	fg3Pct    float64
	ftPct     float64
}

// Baselines loosely modeled on real per-game production tiers.
var archetypes = []archetype{
	{"star", 36, 28, 6, 7, 1.4, 0.6, 3.2, 0.49, 0.38, 0.86},
	{"starter", 32, 18, 6, 4, 1.1, 0.5, 2.2, 0.46, 0.36, 0.80},
	{"big", 30, 14, 11, 2, 0.7, 1.6, 1.8, 0.55, 0.25, 0.68},
	{"role", 24, 10, 4, 2, 0.8, 0.4, 1.2, 0.44, 0.35, 0.76},
	{"bench", 16, 6, 3, 1, 0.5, 0.3, 0.9, 0.42, 0.33, 0.72},
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateGames creates a season of game records for the configured number
// of players. Each player gets a schedule starting on opening night with
// 1-3 day gaps, an archetype baseline, and per-game noise around it.
func generateGames(ctx context.Context, config *Config, stats *Stats) ([]Game, error) {
	logger.Get().Info(ctx, "generating season games",
		logger.Int("players", config.NumPlayers),
		logger.Int("gamesPerPlayer", config.GamesPerPlayer))

	games := make([]Game, 0, config.NumPlayers*config.GamesPerPlayer)
	opening := seasonOpening()

	for i := 0; i < config.NumPlayers; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during game generation: %w", ctx.Err())
		default:
		}

		playerID := uuid.New().String()
		playerName := fmt.Sprintf("Player %03d", i+1)
		position := positions[i%len(positions)]
		arch := archetypes[i%archetypeCount]

		date := opening
		for g := 0; g < config.GamesPerPlayer; g++ {
			games = append(games, generateSingleGame(playerID, playerName, position, arch, date))
			date = date.AddDate(0, 0, minGameGapDays+randomInt(maxGameGapDays-minGameGapDays+1))
		}
	}

	stats.GamesGenerated = len(games)
	logger.Get().Info(ctx, "generated games successfully", logger.Int("count", len(games)))

	return games, nil
}

// seasonOpening returns opening night of the most recently started season.
func seasonOpening() time.Time {
	now := time.Now().UTC()
	year := now.Year()
	if now.Month() < seasonStartMonth {
		year--
	}
	return time.Date(year, seasonStartMonth, seasonStartDay, 0, 0, 0, 0, time.UTC)
}

// generateSingleGame creates one game record with noise around the
// player's archetype baseline.
func generateSingleGame(playerID, playerName, position string, arch archetype, date time.Time) Game {
	return Game{
		RecordID:   uuid.New().String(),
		PlayerID:   playerID,
		PlayerName: playerName,
		Position:   position,
		Date:       date.Format("2006-01-02"),
		Opponent:   opponents[randomInt(len(opponents))],
		IsHome:     randomInt(2) == 0,
		Minutes:    noisy(arch.minutes, 0.15),
		Points:     noisy(arch.points, 0.35),
		Rebounds:   noisy(arch.rebounds, 0.35),
		Assists:    noisy(arch.assists, 0.40),
		Steals:     noisy(arch.steals, 0.50),
		Blocks:     noisy(arch.blocks, 0.50),
		Turnovers:  noisy(arch.turnovers, 0.40),
		FGPct:      clampPct(noisy(arch.fgPct, 0.12)),
		FG3Pct:     clampPct(noisy(arch.fg3Pct, 0.20)),
		FTPct:      clampPct(noisy(arch.ftPct, 0.08)),
	}
}

// noisy perturbs a baseline by up to +-spread (as a fraction of the
// baseline), floored at zero.
func noisy(baseline, spread float64) float64 {
	v := baseline * (1 + (getRandomFloat()*2-1)*spread)
	if v < 0 {
		return 0
	}
	return v
}

func clampPct(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
