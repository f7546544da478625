package ports

import (
	"context"
	"time"

	"github.com/taskhub/task-assignment-api/internal/core/domain"
)

// TaskFilter carries the optional predicates for filtered task listing.
// Zero values mean no constraint; DueFrom is an inclusive lower bound.
type TaskFilter struct {
	Status   domain.TaskStatus
	Priority domain.TaskPriority
	DueFrom  time.Time
}

// TaskUpdate is a partial content update. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *domain.TaskPriority
}

// Empty reports whether the update carries no fields at all.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil && u.Priority == nil
}

// TaskRepository defines persistence operations for tasks. All listings are
// ordered newest-created first.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// UpdateContent applies the partial update and unconditionally sets the
	// task status to completed, matching the store's observed behavior.
	UpdateContent(ctx context.Context, id string, update TaskUpdate) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
	ListByAssignee(ctx context.Context, assigneeID string) ([]*domain.Task, error)
	Filter(ctx context.Context, assigneeID string, filter TaskFilter) ([]*domain.Task, error)
	// ListExcludingAssignee is the admin view: every task not owned by
	// assigneeID.
	ListExcludingAssignee(ctx context.Context, assigneeID string) ([]*domain.Task, error)
	DeleteByAssignee(ctx context.Context, assigneeID string) error
}
