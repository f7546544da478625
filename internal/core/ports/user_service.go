package ports

import (
	"context"

	"github.com/taskhub/task-assignment-api/internal/core/domain"
)

// UserDetail is the admin view of a single user with their tasks embedded.
type UserDetail struct {
	User  *domain.User   `json:"user"`
	Tasks []*domain.Task `json:"tasks"`
}

// UserService defines the admin-facing user directory use cases.
type UserService interface {
	// ListUsers returns every non-admin user. Admins never appear in the
	// result, including the requesting admin.
	ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	GetUserWithTasks(ctx context.Context, actor *domain.User, userID string) (*UserDetail, error)
	// DeleteUser removes the user and then, best effort, every task assigned
	// to them. The two steps are sequential, not atomic.
	DeleteUser(ctx context.Context, actor *domain.User, userID string) error
}
