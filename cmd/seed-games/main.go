package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/hoopcast/hoopcast/internal/simulate"
)

// Default configuration constants.
const (
	defaultNumPlayers     = 150
	defaultGamesPerPlayer = 40
	defaultLeagueSize     = 12
	defaultTopN           = 50
	defaultWorkers        = 2 // multiplier for runtime.NumCPU()
	defaultTimeout        = 30 * time.Second
	defaultRunTimeout     = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numPlayers = flag.Int("players", defaultNumPlayers, "Number of players to generate")
		numGames   = flag.Int("games", defaultGamesPerPlayer, "Games per player")
		leagueSize = flag.Int("league", defaultLeagueSize, "League size for ranking requests")
		topN       = flag.Int("top", defaultTopN, "Number of board entries to fetch")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for generated games (default: generated_games_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: simulation_TIMESTAMP.log)")
		calibrate  = flag.String("calibrate", "", "Directory to write calibrated model artifacts (empty disables)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp()
		return
	}

	// Setup logging
	if err := simulate.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create simulation configuration
	config := &simulate.Config{
		BaseURL:        *baseURL,
		NumPlayers:     *numPlayers,
		GamesPerPlayer: *numGames,
		LeagueSize:     *leagueSize,
		TopN:           *topN,
		Workers:        *workers,
		Timeout:        *timeout,
		OutputFile:     *outputFile,
		LogFile:        *logFile,
		CalibrateDir:   *calibrate,
		Verbose:        *verbose,
	}

	// Run the simulation
	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
