package tasks

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type ObjectRemover interface {
	Remove(ctx context.Context, key string) error
}

type Processor struct {
	logger  zerolog.Logger
	objects ObjectRemover
}

func NewProcessor(logger zerolog.Logger, objects ObjectRemover) *Processor {
	return &Processor{
		logger:  logger,
		objects: objects,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	task, err := Decode(msg.Values)
	if err != nil {
		// Redelivering a broken entry would fail forever.
		p.logger.Error().Err(err).Str("message_id", msg.ID).Msg("dropping undecodable task")
		return nil
	}

	switch task.Type {
	case TypeImageDelete:
		return p.handleImageDelete(ctx, task)
	default:
		p.logger.Warn().Str("type", task.Type).Msg("unknown task type")
		return nil
	}
}

func (p *Processor) handleImageDelete(ctx context.Context, task Task) error {
	if task.Object == "" {
		p.logger.Warn().Int("vehicle_id", task.VehicleID).Msg("image delete without object key")
		return nil
	}
	if p.objects == nil {
		return fmt.Errorf("no object store configured for %s", task.Object)
	}
	if err := p.objects.Remove(ctx, task.Object); err != nil {
		return err
	}
	p.logger.Info().
		Str("object", task.Object).
		Int("vehicle_id", task.VehicleID).
		Msg("vehicle image removed")
	return nil
}
