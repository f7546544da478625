package ports

import (
	"context"

	"github.com/taskhub/task-assignment-api/internal/core/domain"
)

// TokenPair is the session credential issued at login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService owns registration, login, and the session token lifecycle.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	Logout(ctx context.Context, userID string) error
	// Refresh validates the presented refresh token against the stored one
	// and reissues the pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, *domain.User, error)
	// Authenticate resolves an access token to a live user record with the
	// credential hash stripped. Every failure mode collapses to
	// domain.ErrNotAuthenticated.
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}
