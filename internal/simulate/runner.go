package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/hireloop/jobsync/internal/adapters/feed"
	"github.com/hireloop/jobsync/internal/domain/model"
	"github.com/hireloop/jobsync/pkg/logger"
)

// Mutation mix: most mutations update an existing listing, the rest add or
// remove one.
const (
	updateShare = 0.7
	addShare    = 0.85
)

// Run seeds the feed backend with synthetic organizations and listings, then
// optionally churns the listings so a subscribed synchronizer sees live
// updates.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting feed simulation",
		logger.String("redisURL", config.RedisURL),
		logger.String("keyPrefix", config.KeyPrefix),
		logger.Int("orgs", config.NumOrgs),
		logger.Int("listings", config.NumListings),
		logger.Int("mutations", config.Mutations),
		logger.String("churnInterval", config.ChurnInterval.String()),
		logger.Int("workers", config.Workers))

	publisher, err := NewPublisher(ctx, config.RedisURL, config.KeyPrefix)
	if err != nil {
		return fmt.Errorf("connect to feed backend: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close publisher", logger.Error(err))
		}
	}()

	// Step 1: Start from an empty feed
	if err := publisher.Clear(ctx, feed.CollectionOrganizations); err != nil {
		return err
	}
	if err := publisher.Clear(ctx, feed.CollectionListings); err != nil {
		return err
	}

	// Step 2: Seed organizations
	orgs := generateOrganizations(config.NumOrgs)
	if err := publisher.PublishAll(ctx, feed.CollectionOrganizations, orgs, config.Workers); err != nil {
		return fmt.Errorf("seed organizations: %w", err)
	}
	stats.OrgsPublished = len(orgs)
	logger.Get().Info(ctx, "seeded organizations", logger.Int("count", len(orgs)))

	// Step 3: Seed listings
	listings := generateListings(config.NumListings, orgs)
	if err := publisher.PublishAll(ctx, feed.CollectionListings, listings, config.Workers); err != nil {
		return fmt.Errorf("seed listings: %w", err)
	}
	stats.ListingsPublished = len(listings)
	logger.Get().Info(ctx, "seeded listings", logger.Int("count", len(listings)))

	// Step 4: Churn
	if err := churn(ctx, config, publisher, orgs, listings, stats); err != nil {
		return err
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// churn applies config.Mutations random mutations to the listings
// collection, one per churn interval.
func churn(ctx context.Context, config *Config, publisher *Publisher, orgs, listings []model.Document, stats *Stats) error {
	if config.Mutations <= 0 {
		return nil
	}

	ticker := time.NewTicker(config.ChurnInterval)
	defer ticker.Stop()

	for i := 0; i < config.Mutations; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during churn: %w", ctx.Err())
		case <-ticker.C:
		}

		roll := getRandomFloat()
		switch {
		case roll < updateShare && len(listings) > 0:
			idx := randomIndex(len(listings))
			listings[idx] = mutateListing(listings[idx])
			if err := publisher.PublishDoc(ctx, feed.CollectionListings, listings[idx]); err != nil {
				return fmt.Errorf("churn update: %w", err)
			}
			stats.ListingsUpdated++
		case roll < addShare:
			added := generateListings(1, orgs)
			listings = append(listings, added[0])
			if err := publisher.PublishDoc(ctx, feed.CollectionListings, added[0]); err != nil {
				return fmt.Errorf("churn add: %w", err)
			}
			stats.ListingsAdded++
		case len(listings) > 1:
			idx := randomIndex(len(listings))
			id := listings[idx].StringField("id")
			listings = append(listings[:idx], listings[idx+1:]...)
			if err := publisher.Remove(ctx, feed.CollectionListings, id); err != nil {
				return fmt.Errorf("churn remove: %w", err)
			}
			stats.ListingsRemoved++
		}
	}
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("orgsPublished", stats.OrgsPublished),
		logger.Int("listingsPublished", stats.ListingsPublished),
		logger.Int("listingsUpdated", stats.ListingsUpdated),
		logger.Int("listingsAdded", stats.ListingsAdded),
		logger.Int("listingsRemoved", stats.ListingsRemoved),
		logger.String("duration", stats.Duration.String()))
}
