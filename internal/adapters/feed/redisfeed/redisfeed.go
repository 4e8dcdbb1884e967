// Package redisfeed implements the live-subscription Source over Redis.
//
// Each collection lives in a hash keyed <prefix><collection>, one JSON
// document per field. Writers publish any payload to the companion channel
// <prefix><collection>:changed after mutating the hash; subscribers react by
// refetching the full collection and emitting a fresh snapshot. Bursty
// invalidations collapse into rate-limited refetches, which is safe because
// every refetch reads the complete current state.
package redisfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/hireloop/jobsync/internal/adapters/feed"
	"github.com/hireloop/jobsync/internal/domain/model"
	"github.com/hireloop/jobsync/pkg/logger"
)

// Default source configuration constants.
const (
	defaultKeyPrefix      = "jobsync:"
	defaultRefetchTimeout = 5 * time.Second
	defaultRefetchRate    = rate.Limit(4) // refetches per second per subscription
	defaultChannelBuffer  = 16
)

// Source implements feed.Source over a Redis client.
type Source struct {
	client         *redis.Client
	log            logger.Logger
	keyPrefix      string
	refetchTimeout time.Duration
	refetchRate    rate.Limit
}

// Option applies a configuration option to the Source.
type Option func(*Source)

// WithKeyPrefix overrides the key prefix for collection hashes and channels.
func WithKeyPrefix(prefix string) Option {
	return func(s *Source) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// WithRefetchTimeout bounds a single collection refetch.
func WithRefetchTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.refetchTimeout = d
		}
	}
}

// WithRefetchRate caps refetches per second per subscription.
func WithRefetchRate(r rate.Limit) Option {
	return func(s *Source) {
		if r > 0 {
			s.refetchRate = r
		}
	}
}

// WithLogger sets a custom logger for the source.
func WithLogger(log logger.Logger) Option {
	return func(s *Source) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Source backed by an existing Redis client.
func New(client *redis.Client, opts ...Option) *Source {
	s := &Source{
		client:         client,
		keyPrefix:      defaultKeyPrefix,
		refetchTimeout: defaultRefetchTimeout,
		refetchRate:    defaultRefetchRate,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe starts a live stream for (collection, q): one initial snapshot,
// then a refetched snapshot per invalidation message.
func (s *Source) Subscribe(collection string, q feed.Query) (feed.Subscription, error) {
	ctx, cancel := context.WithCancel(context.Background())
	pubsub := s.client.Subscribe(ctx, s.channelKey(collection))

	// Fail fast when the pub/sub channel cannot be established.
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", collection, err)
	}

	sub := &subscription{
		snaps:  make(chan feed.Snapshot, defaultChannelBuffer),
		errs:   make(chan *feed.TransportError, defaultChannelBuffer),
		cancel: cancel,
		pubsub: pubsub,
	}
	go s.run(ctx, collection, q, sub)
	return sub, nil
}

func (s *Source) run(ctx context.Context, collection string, q feed.Query, sub *subscription) {
	defer close(sub.snaps)
	defer close(sub.errs)

	s.refetch(ctx, collection, q, sub)

	limiter := rate.NewLimiter(s.refetchRate, 1)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.pubsub.Channel():
			if !ok {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			s.refetch(ctx, collection, q, sub)
		}
	}
}

// refetch reads the full collection and emits a snapshot. Transport failures
// become recoverable errors on the error stream; individual documents that
// fail to decode are skipped.
func (s *Source) refetch(ctx context.Context, collection string, q feed.Query, sub *subscription) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.refetchTimeout)
	defer cancel()

	raw, err := s.client.HGetAll(fetchCtx, s.collectionKey(collection)).Result()
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		sub.sendErr(&feed.TransportError{
			Collection:  collection,
			Recoverable: true,
			Err:         fmt.Errorf("refetch: %w", err),
		})
		return
	}

	docs := make([]model.Document, 0, len(raw))
	for field, payload := range raw {
		var doc model.Document
		if err := json.Unmarshal([]byte(payload), &doc); err != nil {
			if s.log != nil {
				s.log.Warn(ctx, "skipping undecodable document",
					logger.String("collection", collection),
					logger.String("field", field),
					logger.Error(err),
				)
			}
			continue
		}
		if q.Matches(doc) {
			docs = append(docs, doc)
		}
	}
	// Hash iteration order is arbitrary; order by id so consumers see a
	// stable sequence across refetches.
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].StringField("id") < docs[j].StringField("id")
	})

	sub.send(feed.Snapshot{Collection: collection, Documents: docs})
}

func (s *Source) collectionKey(collection string) string {
	return s.keyPrefix + collection
}

func (s *Source) channelKey(collection string) string {
	return s.keyPrefix + collection + ":changed"
}

type subscription struct {
	snaps  chan feed.Snapshot
	errs   chan *feed.TransportError
	cancel context.CancelFunc
	pubsub *redis.PubSub
}

func (s *subscription) Snapshots() <-chan feed.Snapshot     { return s.snaps }
func (s *subscription) Errors() <-chan *feed.TransportError { return s.errs }

func (s *subscription) Cancel() {
	s.cancel()
	_ = s.pubsub.Close()
}

// send drops the oldest buffered snapshot when the consumer lags; only the
// latest state matters.
func (s *subscription) send(snap feed.Snapshot) {
	for {
		select {
		case s.snaps <- snap:
			return
		default:
			select {
			case <-s.snaps:
			default:
			}
		}
	}
}

func (s *subscription) sendErr(terr *feed.TransportError) {
	select {
	case s.errs <- terr:
	default:
	}
}
