// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RedisURL points at the live feed backend. Empty selects the in-memory
	// source, which is only useful with the simulator.
	RedisURL string `koanf:"redis_url"`

	// KeyPrefix namespaces the feed keys in Redis.
	KeyPrefix string `koanf:"key_prefix"`

	// SQLitePath locates the application store database file.
	SQLitePath string `koanf:"sqlite_path"`

	// RefetchTimeoutMS bounds a single feed refetch round trip.
	RefetchTimeoutMS int `koanf:"refetch_timeout_ms"`

	// RefetchPerSecond caps how often invalidations trigger a full refetch.
	RefetchPerSecond float64 `koanf:"refetch_per_second"`

	// DefaultCategory seeds the category filter; "all" disables it.
	DefaultCategory string `koanf:"default_category"`

	// DefaultRadiusKM seeds the radius filter; 0 disables it.
	DefaultRadiusKM float64 `koanf:"default_radius_km"`

	// ViewerLat, ViewerLon and ViewerLocationSet configure a fixed viewer
	// position for deployments without a device location source.
	ViewerLat         float64 `koanf:"viewer_lat"`
	ViewerLon         float64 `koanf:"viewer_lon"`
	ViewerLocationSet bool    `koanf:"viewer_location_set"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:         "info",
		Addr:             ":8080",
		KeyPrefix:        "jobsync:",
		SQLitePath:       "jobsync.db",
		RefetchTimeoutMS: 5000,
		RefetchPerSecond: 4,
		DefaultCategory:  "all",
	}
	return c
}
