package ports

import (
	"context"
	"time"
)

// TokenStore persists the refresh token issued to each user so that logout
// revokes the session and refresh can check the presented token against the
// stored one.
type TokenStore interface {
	Save(ctx context.Context, userID, refreshToken string, ttl time.Duration) error
	// Get returns the stored token, or "" when none is stored.
	Get(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, userID string) error
}
