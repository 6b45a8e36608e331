package ports

import (
	"context"
	"time"
)

// TokenDenylist records revoked token IDs until their natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
