package simulate

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/hoopcast/hoopcast/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "simulation_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the season simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Hoopcast Season Simulator
=========================

Generates a synthetic season of player game logs, feeds them through the
ingestion pipeline, and exercises the ranking and prediction endpoints.

Usage:
  go run cmd/seed-games/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -players int
        Number of players to generate (default 150)
  -games int
        Games per player (default 40)
  -league int
        League size for ranking requests (default 12)
  -top int
        Number of board entries to fetch (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated games (default: generated_games_TIMESTAMP.json)
  -log string
        Log file for run output (default: simulation_TIMESTAMP.log)
  -calibrate string
        Directory to write calibrated model artifacts derived from the
        generated season (empty disables)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/seed-games/main.go

  # A bigger league with more history
  go run cmd/seed-games/main.go -players 300 -games 60 -workers 16

  # Verbose run against a non-default port
  go run cmd/seed-games/main.go -verbose -url http://localhost:8080
`)
}
