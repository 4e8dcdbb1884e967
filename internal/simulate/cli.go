package simulate

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/hireloop/jobsync/pkg/logger"
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
		logFile = "simulation_log_" + timestamp + ".log"
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

// ShowHelp prints usage information for the simulator.
func ShowHelp() {
	os.Stdout.WriteString(`JobSync Feed Simulator
======================

Seeds the Redis feed backend with synthetic organizations and job listings,
then churns the listings so a subscribed synchronizer sees live updates.

Usage:
  go run cmd/jobsync-sim/main.go [options]

Options:
  -redis string
        Redis URL of the feed backend (default "redis://localhost:6379/0")
  -prefix string
        Key prefix shared with the synchronizer (default "jobsync:")
  -orgs int
        Number of organizations to seed (default 20)
  -listings int
        Number of listings to seed (default 200)
  -mutations int
        Number of live mutations after seeding; 0 seeds only (default 100)
  -interval duration
        Delay between mutations (default 500ms)
  -workers int
        Number of concurrent publish workers (default CPU cores * 2)
  -log string
        Log file for simulation output (default: simulation_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed and churn with default settings
  go run cmd/jobsync-sim/main.go

  # Seed a large feed without churn
  go run cmd/jobsync-sim/main.go -listings 5000 -mutations 0

  # Slow churn against a remote backend
  go run cmd/jobsync-sim/main.go -redis redis://cache:6379/1 -interval 2s
`)
}
