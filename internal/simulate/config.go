package simulate

import "time"

// Config holds configuration for a simulation run
type Config struct {
	RedisURL      string        // Redis connection URL of the feed backend
	KeyPrefix     string        // Key prefix shared with the synchronizer
	NumOrgs       int           // Number of organizations to seed
	NumListings   int           // Number of listings to seed
	Mutations     int           // Number of live mutations after seeding; 0 seeds only
	ChurnInterval time.Duration // Delay between mutations
	Workers       int           // Number of concurrent publish workers
	LogFile       string        // Log file for simulation output
	Verbose       bool          // Enable verbose logging
}

// Stats holds simulation statistics
type Stats struct {
	OrgsPublished     int
	ListingsPublished int
	ListingsUpdated   int
	ListingsAdded     int
	ListingsRemoved   int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
