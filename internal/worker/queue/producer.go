package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"csemotors/web/internal/worker/tasks"
)

// Producer appends tasks to the stream read by cmd/worker.
type Producer struct {
	client redis.Cmdable
	stream string
}

func NewProducer(client redis.Cmdable, stream string) *Producer {
	return &Producer{client: client, stream: stream}
}

func (p *Producer) Enqueue(ctx context.Context, task tasks.Task) error {
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: task.Values(),
	}).Result()
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type, err)
	}
	return nil
}
