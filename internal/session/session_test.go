package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csemotors/web/internal/security"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestFlashStoreAddPop(t *testing.T) {
	mr, client := newClient(t)
	store := NewFlashStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "sid", "first"))
	require.NoError(t, store.Add(ctx, "sid", "second"))
	assert.True(t, mr.Exists("flash:sid"))

	messages, err := store.Pop(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, messages)

	messages, err = store.Pop(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFlashStoreExpires(t *testing.T) {
	mr, client := newClient(t)
	store := NewFlashStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "sid", "stale"))
	mr.FastForward(2 * time.Minute)

	messages, err := store.Pop(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFlashStoreIgnoresMissingSession(t *testing.T) {
	_, client := newClient(t)
	store := NewFlashStore(client, time.Minute)

	require.NoError(t, store.Add(context.Background(), "", "lost"))
	messages, err := store.Pop(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, messages)
}

func claimsAt(id string, accountID int, issued time.Time) *security.IdentityClaims {
	return &security.IdentityClaims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       id,
			IssuedAt: jwt.NewNumericDate(issued),
		},
	}
}

func TestRevokerToken(t *testing.T) {
	mr, client := newClient(t)
	revoker := NewRevoker(client)
	ctx := context.Background()
	now := time.Now()

	revoked, err := revoker.IsRevoked(ctx, claimsAt("a", 1, now))
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revoker.RevokeToken(ctx, "a", time.Hour))
	revoked, err = revoker.IsRevoked(ctx, claimsAt("a", 1, now))
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = revoker.IsRevoked(ctx, claimsAt("b", 1, now))
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = revoker.IsRevoked(ctx, claimsAt("a", 1, now))
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokerAccountCutoff(t *testing.T) {
	_, client := newClient(t)
	revoker := NewRevoker(client)
	ctx := context.Background()
	cutoff := time.Now()

	require.NoError(t, revoker.RevokeAccount(ctx, 9, cutoff, time.Hour))

	revoked, err := revoker.IsRevoked(ctx, claimsAt("old", 9, cutoff.Add(-time.Minute)))
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = revoker.IsRevoked(ctx, claimsAt("new", 9, cutoff.Add(time.Minute)))
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = revoker.IsRevoked(ctx, claimsAt("other", 10, cutoff.Add(-time.Minute)))
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeTokenWithoutLifetimeIsNoop(t *testing.T) {
	mr, client := newClient(t)
	revoker := NewRevoker(client)

	require.NoError(t, revoker.RevokeToken(context.Background(), "gone", 0))
	assert.False(t, mr.Exists("revoked:token:gone"))
}
