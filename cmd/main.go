package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/hireloop/jobsync/internal/adapters/feed"
	"github.com/hireloop/jobsync/internal/adapters/feed/redisfeed"
	"github.com/hireloop/jobsync/internal/adapters/http/api"
	"github.com/hireloop/jobsync/internal/adapters/location"
	"github.com/hireloop/jobsync/internal/adapters/profile"
	"github.com/hireloop/jobsync/internal/adapters/repository"
	app "github.com/hireloop/jobsync/internal/app"
	"github.com/hireloop/jobsync/internal/config"
	"github.com/hireloop/jobsync/internal/domain/model"
	"github.com/hireloop/jobsync/pkg/logger"
	"github.com/hireloop/jobsync/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Feed source and profile fetcher: Redis when configured, in-memory
	// otherwise. The in-memory source stays empty without the simulator.
	var source feed.Source
	var fetcher profile.Fetcher
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			os.Stderr.WriteString("invalid redis_url: " + err.Error() + "\n")
			return
		}
		client := redis.NewClient(redisOpts)
		defer func() {
			if err := client.Close(); err != nil {
				loggerInstance.Error(ctx, "failed to close redis client", logger.Error(err))
			}
		}()

		source = redisfeed.New(client,
			redisfeed.WithKeyPrefix(cfg.KeyPrefix),
			redisfeed.WithRefetchTimeout(time.Duration(cfg.RefetchTimeoutMS)*time.Millisecond),
			redisfeed.WithRefetchRate(rate.Limit(cfg.RefetchPerSecond)),
			redisfeed.WithLogger(loggerInstance),
		)
		fetcher = profile.NewRedisFetcher(client,
			profile.WithKeyPrefix(cfg.KeyPrefix+"profiles:"),
		)
		loggerInstance.Info(ctx, "using redis feed source", logger.String("key_prefix", cfg.KeyPrefix))
	} else {
		source = feed.NewMemorySource()
		loggerInstance.Warn(ctx, "no redis_url configured; using empty in-memory feed source")
	}

	// Application store.
	store, err := repository.Open(cfg.SQLitePath)
	if err != nil {
		os.Stderr.WriteString("failed to open application store: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			loggerInstance.Error(ctx, "failed to close application store", logger.Error(err))
		}
	}()

	// Viewer location: fixed position from config, or unavailable.
	var locator location.Provider = location.Unavailable{}
	if cfg.ViewerLocationSet {
		locator = location.Static{Position: model.Coordinate{Lat: cfg.ViewerLat, Lon: cfg.ViewerLon}}
	}
	locator = location.Logged{Provider: locator, Log: loggerInstance}

	// Create and subscribe the synchronizer.
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithSource(source),
		app.WithStore(store),
		app.WithLocationProvider(locator),
		app.WithProfileFetcher(fetcher),
	)
	if err := svc.Subscribe(ctx); err != nil {
		os.Stderr.WriteString("failed to subscribe: " + err.Error() + "\n")
		return
	}
	defer svc.Unsubscribe()

	// Seed the filter from configuration.
	svc.SetFilter(ctx, "", cfg.DefaultCategory, cfg.DefaultRadiusKM)

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
