package ports

import (
	"context"

	"github.com/taskhub/task-assignment-api/internal/core/domain"
)

// UserRepository defines persistence operations for the user directory.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// ListMembers returns every user whose role is not admin.
	ListMembers(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
}
