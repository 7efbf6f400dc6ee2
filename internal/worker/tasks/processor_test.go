package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemover struct {
	removed []string
	err     error
}

func (f *fakeRemover) Remove(_ context.Context, key string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, key)
	return nil
}

func message(task Task) redis.XMessage {
	values := task.Values()
	// Stream values come back from redis as strings.
	out := make(map[string]any, len(values))
	for k, v := range values {
		out[k] = v.(string)
	}
	return redis.XMessage{ID: "1-0", Values: out}
}

func TestTaskRoundTrip(t *testing.T) {
	task := Task{Type: TypeImageDelete, Object: "2024/01/02/x.jpg", VehicleID: 4}
	decoded, err := Decode(message(task).Values)
	require.NoError(t, err)
	assert.Equal(t, task, decoded)

	_, err = Decode(map[string]any{"type": TypeImageDelete})
	assert.ErrorIs(t, err, ErrMalformedTask)
}

func TestProcessorRemovesImage(t *testing.T) {
	remover := &fakeRemover{}
	p := NewProcessor(zerolog.Nop(), remover)

	err := p.Handle(context.Background(), message(Task{Type: TypeImageDelete, Object: "a/b.png", VehicleID: 1}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a/b.png"}, remover.removed)
}

func TestProcessorSurfacesRemoveFailure(t *testing.T) {
	p := NewProcessor(zerolog.Nop(), &fakeRemover{err: errors.New("unreachable")})

	err := p.Handle(context.Background(), message(Task{Type: TypeImageDelete, Object: "a/b.png"}))
	assert.Error(t, err)
}

func TestProcessorIgnoresUnknownAndBroken(t *testing.T) {
	remover := &fakeRemover{}
	p := NewProcessor(zerolog.Nop(), remover)

	require.NoError(t, p.Handle(context.Background(), message(Task{Type: "thumbnail"})))
	require.NoError(t, p.Handle(context.Background(), redis.XMessage{ID: "2-0", Values: map[string]any{"payload": "{"}}))
	assert.Empty(t, remover.removed)
}
