package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"csemotors/web/internal/security"
)

const (
	revokedTokenPrefix   = "revoked:token:"
	revokedAccountPrefix = "revoked:account:"
)

// Revoker is a denylist for identity tokens that are still within their
// lifetime but must no longer be honoured.
type Revoker struct {
	client redis.Cmdable
}

func NewRevoker(client redis.Cmdable) *Revoker {
	return &Revoker{client: client}
}

// RevokeToken denies a single token id until it would have expired anyway.
func (r *Revoker) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeAccount denies every token of the account issued before at. The
// marker only needs to outlive the longest possible token.
func (r *Revoker) RevokeAccount(ctx context.Context, accountID int, at time.Time, ttl time.Duration) error {
	key := revokedAccountPrefix + strconv.Itoa(accountID)
	if err := r.client.Set(ctx, key, at.Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke account tokens: %w", err)
	}
	return nil
}

func (r *Revoker) IsRevoked(ctx context.Context, claims *security.IdentityClaims) (bool, error) {
	if claims.ID != "" {
		n, err := r.client.Exists(ctx, revokedTokenPrefix+claims.ID).Result()
		if err != nil {
			return false, fmt.Errorf("check token denylist: %w", err)
		}
		if n > 0 {
			return true, nil
		}
	}

	cutoff, err := r.client.Get(ctx, revokedAccountPrefix+strconv.Itoa(claims.AccountID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check account denylist: %w", err)
	}
	if claims.IssuedAt == nil {
		return true, nil
	}
	return claims.IssuedAt.Unix() < cutoff, nil
}
