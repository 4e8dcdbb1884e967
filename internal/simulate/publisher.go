package simulate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/hireloop/jobsync/internal/domain/model"
)

// Publisher writes collection documents into the Redis layout the
// synchronizer reads from: one hash per collection with a JSON document per
// field, plus an invalidation channel per collection.
type Publisher struct {
	client    *redis.Client
	keyPrefix string
}

// NewPublisher connects to the feed backend and verifies it is reachable.
func NewPublisher(ctx context.Context, redisURL, keyPrefix string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Publisher{client: client, keyPrefix: keyPrefix}, nil
}

// PublishAll writes every document concurrently, then signals one
// invalidation for the whole batch.
func (p *Publisher) PublishAll(ctx context.Context, collection string, docs []model.Document, workers int) error {
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, doc := range docs {
		g.Go(func() error {
			return p.write(ctx, collection, doc)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("publish %s batch: %w", collection, err)
	}
	return p.invalidate(ctx, collection)
}

// PublishDoc writes one document and signals an invalidation.
func (p *Publisher) PublishDoc(ctx context.Context, collection string, doc model.Document) error {
	if err := p.write(ctx, collection, doc); err != nil {
		return err
	}
	return p.invalidate(ctx, collection)
}

// Remove deletes one document and signals an invalidation.
func (p *Publisher) Remove(ctx context.Context, collection, id string) error {
	if err := p.client.HDel(ctx, p.collectionKey(collection), id).Err(); err != nil {
		return fmt.Errorf("remove %s/%s: %w", collection, id, err)
	}
	return p.invalidate(ctx, collection)
}

// Clear drops a whole collection without signalling.
func (p *Publisher) Clear(ctx context.Context, collection string) error {
	if err := p.client.Del(ctx, p.collectionKey(collection)).Err(); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	return nil
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	if err := p.client.Close(); err != nil {
		return fmt.Errorf("close redis client: %w", err)
	}
	return nil
}

func (p *Publisher) write(ctx context.Context, collection string, doc model.Document) error {
	id := doc.StringField("id")
	if id == "" {
		return fmt.Errorf("document in %s has no id", collection)
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s/%s: %w", collection, id, err)
	}
	if err := p.client.HSet(ctx, p.collectionKey(collection), id, payload).Err(); err != nil {
		return fmt.Errorf("write %s/%s: %w", collection, id, err)
	}
	return nil
}

func (p *Publisher) invalidate(ctx context.Context, collection string) error {
	if err := p.client.Publish(ctx, p.channelKey(collection), "changed").Err(); err != nil {
		return fmt.Errorf("invalidate %s: %w", collection, err)
	}
	return nil
}

func (p *Publisher) collectionKey(collection string) string {
	return p.keyPrefix + collection
}

func (p *Publisher) channelKey(collection string) string {
	return p.keyPrefix + collection + ":changed"
}
