package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"csemotors/web/internal/models"
)

const classificationsKey = "nav:classifications"

type ClassificationSource interface {
	List(ctx context.Context) ([]models.Classification, error)
}

// Classifications caches the classification list that every page renders in
// its navigation bar. Redis trouble degrades to reading the source directly.
type Classifications struct {
	client redis.Cmdable
	source ClassificationSource
	ttl    time.Duration
	log    zerolog.Logger
}

func NewClassifications(client redis.Cmdable, source ClassificationSource, ttl time.Duration, log zerolog.Logger) *Classifications {
	return &Classifications{
		client: client,
		source: source,
		ttl:    ttl,
		log:    log,
	}
}

func (c *Classifications) List(ctx context.Context) ([]models.Classification, error) {
	raw, err := c.client.Get(ctx, classificationsKey).Bytes()
	switch {
	case err == nil:
		var cached []models.Classification
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		c.log.Warn().Msg("discarding unreadable classification cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Msg("classification cache read failed")
		return c.source.List(ctx)
	}

	return c.Refresh(ctx)
}

// Refresh reloads the list from the source and stores it.
func (c *Classifications) Refresh(ctx context.Context) ([]models.Classification, error) {
	list, err := c.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load classifications: %w", err)
	}

	payload, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode classifications: %w", err)
	}
	if err := c.client.Set(ctx, classificationsKey, payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("classification cache write failed")
	}
	return list, nil
}

func (c *Classifications) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, classificationsKey).Err(); err != nil {
		return fmt.Errorf("invalidate classifications: %w", err)
	}
	return nil
}
