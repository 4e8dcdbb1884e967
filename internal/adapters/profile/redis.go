package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hireloop/jobsync/internal/domain/model"
)

// Default Redis fetcher configuration constants.
const (
	defaultKeyPrefix    = "jobsync:profiles:"
	defaultFetchTimeout = 3 * time.Second
)

// RedisFetcher reads profile documents stored as JSON strings under
// <prefix><userID>.
type RedisFetcher struct {
	client       *redis.Client
	keyPrefix    string
	fetchTimeout time.Duration
}

// RedisOption applies a configuration option to the RedisFetcher.
type RedisOption func(*RedisFetcher)

// WithKeyPrefix overrides the key prefix for profile documents.
func WithKeyPrefix(prefix string) RedisOption {
	return func(f *RedisFetcher) {
		if prefix != "" {
			f.keyPrefix = prefix
		}
	}
}

// WithFetchTimeout bounds a single document read.
func WithFetchTimeout(d time.Duration) RedisOption {
	return func(f *RedisFetcher) {
		if d > 0 {
			f.fetchTimeout = d
		}
	}
}

// NewRedisFetcher creates a Fetcher backed by an existing Redis client.
func NewRedisFetcher(client *redis.Client, opts ...RedisOption) *RedisFetcher {
	f := &RedisFetcher{
		client:       client,
		keyPrefix:    defaultKeyPrefix,
		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch reads and decodes the user's profile document.
func (f *RedisFetcher) Fetch(ctx context.Context, userID string) (model.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	raw, err := f.client.Get(ctx, f.keyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile fetch for %q: %w", userID, err)
	}

	var doc model.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("profile decode for %q: %w", userID, err)
	}
	return doc, nil
}
