// Package session keeps the short-lived per-browser state that does not fit in
// the identity cookie: one-shot flash notices and the token denylist.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const flashPrefix = "flash:"

// FlashStore queues notices for the next rendered page of a browser session.
type FlashStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewFlashStore(client redis.Cmdable, ttl time.Duration) *FlashStore {
	return &FlashStore{client: client, ttl: ttl}
}

func (s *FlashStore) Add(ctx context.Context, sessionID string, message string) error {
	if sessionID == "" {
		return nil
	}
	key := flashPrefix + sessionID
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, message)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("add flash: %w", err)
	}
	return nil
}

// Pop returns the queued notices in insertion order and clears them.
func (s *FlashStore) Pop(ctx context.Context, sessionID string) ([]string, error) {
	if sessionID == "" {
		return nil, nil
	}
	key := flashPrefix + sessionID

	var messages *redis.StringSliceCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		messages = pipe.LRange(ctx, key, 0, -1)
		pipe.Del(ctx, key)
		return nil
	})
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("pop flash: %w", err)
	}
	return messages.Val(), nil
}
