package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/hireloop/jobsync/internal/simulate"
)

// Default configuration constants.
const (
	defaultNumOrgs       = 20
	defaultNumListings   = 200
	defaultMutations     = 100
	defaultChurnInterval = 500 * time.Millisecond
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultRunTimeout    = 10 * time.Minute
)

func main() {
	var (
		redisURL  = flag.String("redis", "redis://localhost:6379/0", "Redis URL of the feed backend")
		keyPrefix = flag.String("prefix", "jobsync:", "Key prefix shared with the synchronizer")
		numOrgs   = flag.Int("orgs", defaultNumOrgs, "Number of organizations to seed")
		listings  = flag.Int("listings", defaultNumListings, "Number of listings to seed")
		mutations = flag.Int("mutations", defaultMutations, "Number of live mutations after seeding; 0 seeds only")
		interval  = flag.Duration("interval", defaultChurnInterval, "Delay between mutations")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent publish workers")
		logFile   = flag.String("log", "", "Log file for simulation output (default: simulation_log_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
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
		RedisURL:      *redisURL,
		KeyPrefix:     *keyPrefix,
		NumOrgs:       *numOrgs,
		NumListings:   *listings,
		Mutations:     *mutations,
		ChurnInterval: *interval,
		Workers:       *workers,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	// Run the simulation
	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
