package ports

import (
	"context"
	"time"

	"github.com/taskhub/task-assignment-api/internal/core/domain"
)

// CreateTaskInput carries everything needed to create and assign a task.
// StagedFiles holds local paths of up to three uploaded documents, in slot
// order; empty entries mean the slot was not supplied.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    domain.TaskPriority
	AssigneeID  string
	StagedFiles []string
}

// TaskService defines the task lifecycle use cases. Every method takes the
// acting user and gates the operation through the authorization policy
// before touching the store.
type TaskService interface {
	Create(ctx context.Context, actor *domain.User, input CreateTaskInput) (*domain.Task, error)
	GetByID(ctx context.Context, actor *domain.User, taskID string) (*domain.Task, error)
	UpdateContent(ctx context.Context, actor *domain.User, taskID string, update TaskUpdate) (*domain.Task, error)
	UpdateStatus(ctx context.Context, actor *domain.User, taskID string, status domain.TaskStatus) (*domain.Task, error)
	Delete(ctx context.Context, actor *domain.User, taskID string) error
	ListOwn(ctx context.Context, actor *domain.User) ([]*domain.Task, error)
	FilterOwn(ctx context.Context, actor *domain.User, filter TaskFilter) ([]*domain.Task, error)
	// ListAll is the admin view; it excludes tasks assigned to the actor.
	ListAll(ctx context.Context, actor *domain.User) ([]*domain.Task, error)
}
