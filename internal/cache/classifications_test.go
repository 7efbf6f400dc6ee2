package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csemotors/web/internal/models"
)

type countingSource struct {
	calls int
	list  []models.Classification
	err   error
}

func (s *countingSource) List(context.Context) ([]models.Classification, error) {
	s.calls++
	return s.list, s.err
}

func setup(t *testing.T, source *countingSource) (*miniredis.Miniredis, *Classifications) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewClassifications(client, source, time.Minute, zerolog.Nop())
}

func TestClassificationsCachesList(t *testing.T) {
	source := &countingSource{list: []models.Classification{{ID: 1, Name: "Custom"}, {ID: 2, Name: "Sedan"}}}
	_, cache := setup(t, source)
	ctx := context.Background()

	first, err := cache.List(ctx)
	require.NoError(t, err)
	second, err := cache.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, source.list, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)
}

func TestClassificationsInvalidateAndExpiry(t *testing.T) {
	source := &countingSource{list: []models.Classification{{ID: 1, Name: "Custom"}}}
	mr, cache := setup(t, source)
	ctx := context.Background()

	_, err := cache.List(ctx)
	require.NoError(t, err)

	require.NoError(t, cache.Invalidate(ctx))
	_, err = cache.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)

	mr.FastForward(2 * time.Minute)
	_, err = cache.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, source.calls)
}

func TestClassificationsFallsBackWhenRedisDown(t *testing.T) {
	source := &countingSource{list: []models.Classification{{ID: 1, Name: "Truck"}}}
	mr, cache := setup(t, source)
	mr.Close()

	list, err := cache.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, source.list, list)
}

func TestClassificationsSourceError(t *testing.T) {
	source := &countingSource{err: errors.New("db down")}
	_, cache := setup(t, source)

	_, err := cache.List(context.Background())
	assert.ErrorContains(t, err, "db down")
}
