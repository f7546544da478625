package service

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhub/task-assignment-api/internal/api/metrics"
	"github.com/taskhub/task-assignment-api/internal/core/domain"
	"github.com/taskhub/task-assignment-api/internal/core/policy"
	"github.com/taskhub/task-assignment-api/internal/core/ports"
)

// TaskService implements the task lifecycle use cases. All role and
// ownership checks go through policy.Decide before any store access.
type TaskService struct {
	tasks    ports.TaskRepository
	users    ports.UserRepository
	resolver ports.AttachmentResolver
	log      zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, resolver ports.AttachmentResolver, log zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, resolver: resolver, log: log}
}

// Create assigns a new task. The up-to-three staged documents are resolved
// concurrently and all awaited before the task is persisted; a failed
// resolution degrades to a nil attachment slot and never aborts creation.
func (s *TaskService) Create(ctx context.Context, actor *domain.User, input ports.CreateTaskInput) (*domain.Task, error) {
	if d := policy.Decide(actor, policy.ActionCreateTask, nil); !d.Allowed {
		return nil, domain.Forbidden(d.Reason)
	}

	if input.Title == "" || input.Description == "" || input.AssigneeID == "" {
		return nil, domain.ErrValidation
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, domain.ErrValidation
	}

	assignee, err := s.users.FindByID(ctx, input.AssigneeID)
	if err != nil {
		return nil, err
	}

	attachments := s.resolveAttachments(ctx, input.StagedFiles)

	now := time.Now().UTC()
	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.StatusPending,
		Priority:    priority,
		AssigneeID:  assignee.ID,
		Attachments: attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !input.DueDate.IsZero() {
		due := input.DueDate
		task.DueDate = &due
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(priority)).Inc()
	s.log.Info().Str("task_id", created.ID).Str("assigned_to", assignee.ID).Msg("task created")

	created.Assignee = assignee
	return created, nil
}

// resolveAttachments uploads each staged file independently and waits for
// all of them. Staged files are removed whether or not the upload succeeds.
func (s *TaskService) resolveAttachments(ctx context.Context, staged []string) []*string {
	attachments := make([]*string, domain.MaxAttachments)

	var wg sync.WaitGroup
	for i := 0; i < domain.MaxAttachments && i < len(staged); i++ {
		path := staged[i]
		if path == "" {
			continue
		}
		wg.Add(1)
		go func(slot int, path string) {
			defer wg.Done()
			defer os.Remove(path)

			url, err := s.resolver.Resolve(ctx, path)
			if err != nil {
				metrics.AttachmentUploadsTotal.WithLabelValues("error").Inc()
				s.log.Warn().Err(err).Str("file", path).Msg("attachment upload failed")
				return
			}
			metrics.AttachmentUploadsTotal.WithLabelValues("ok").Inc()
			attachments[slot] = &url
		}(i, path)
	}
	wg.Wait()

	return attachments
}

// GetByID returns a task to any authenticated actor; there is no ownership
// check on single-task reads.
func (s *TaskService) GetByID(ctx context.Context, actor *domain.User, taskID string) (*domain.Task, error) {
	if d := policy.Decide(actor, policy.ActionGetTaskByID, nil); !d.Allowed {
		return nil, domain.Forbidden(d.Reason)
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	s.populateAssignee(ctx, task)
	return task, nil
}

// UpdateContent applies a partial edit. The store forces status to
// completed on every content update, whatever fields were edited.
func (s *TaskService) UpdateContent(ctx context.Context, actor *domain.User, taskID string, update ports.TaskUpdate) (*domain.Task, error) {
	if d := policy.Decide(actor, policy.ActionUpdateTask, nil); !d.Allowed {
		return nil, domain.Forbidden(d.Reason)
	}
	if update.Empty() {
		return nil, domain.ErrValidation
	}
	if update.Priority != nil && !update.Priority.Valid() {
		return nil, domain.ErrValidation
	}

	task, err := s.tasks.UpdateContent(ctx, taskID, update)
	if err != nil {
		return nil, err
	}
	s.populateAssignee(ctx, task)
	return task, nil
}

// UpdateStatus sets the task status. Only the assignee may do this, admins
// included in the denial. The value is checked for enum membership only.
func (s *TaskService) UpdateStatus(ctx context.Context, actor *domain.User, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.ErrValidation
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if d := policy.Decide(actor, policy.ActionUpdateTaskStatus, &policy.Resource{AssigneeID: task.AssigneeID}); !d.Allowed {
		return nil, domain.Forbidden(d.Reason)
	}

	updated, err := s.tasks.UpdateStatus(ctx, taskID, status)
	if err != nil {
		return nil, err
	}

	metrics.TaskStatusTransitionsTotal.WithLabelValues(string(status)).Inc()
	s.populateAssignee(ctx, updated)
	return updated, nil
}

func (s *TaskService) Delete(ctx context.Context, actor *domain.User, taskID string) error {
	if d := policy.Decide(actor, policy.ActionDeleteTask, nil); !d.Allowed {
		return domain.Forbidden(d.Reason)
	}
	return s.tasks.Delete(ctx, taskID)
}

// ListOwn returns the actor's tasks, newest-created first. Zero matches is
// reported as ErrNoResults, not an empty 200.
func (s *TaskService) ListOwn(ctx context.Context, actor *domain.User) ([]*domain.Task, error) {
	if d := policy.Decide(actor, policy.ActionListOwnTasks, nil); !d.Allowed {
		return nil, domain.Forbidden(d.Reason)
	}

	tasks, err := s.tasks.ListByAssignee(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, domain.ErrNoResults
	}
	s.populateAssignees(ctx, tasks)
	return tasks, nil
}

// FilterOwn applies the optional predicates, ANDed, over the actor's tasks.
// An empty filter is equivalent to ListOwn.
func (s *TaskService) FilterOwn(ctx context.Context, actor *domain.User, filter ports.TaskFilter) ([]*domain.Task, error) {
	if d := policy.Decide(actor, policy.ActionFilterOwnTasks, nil); !d.Allowed {
		return nil, domain.Forbidden(d.Reason)
	}

	tasks, err := s.tasks.Filter(ctx, actor.ID, filter)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, domain.ErrNoResults
	}
	s.populateAssignees(ctx, tasks)
	return tasks, nil
}

// ListAll is the admin view of every task not assigned to the actor.
func (s *TaskService) ListAll(ctx context.Context, actor *domain.User) ([]*domain.Task, error) {
	if d := policy.Decide(actor, policy.ActionListAllTasks, nil); !d.Allowed {
		return nil, domain.Forbidden(d.Reason)
	}

	tasks, err := s.tasks.ListExcludingAssignee(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, domain.ErrNoResults
	}
	s.populateAssignees(ctx, tasks)
	return tasks, nil
}

// populateAssignee embeds the owning user, credential hash stripped. A
// directory miss leaves the field nil rather than failing the read.
func (s *TaskService) populateAssignee(ctx context.Context, task *domain.Task) {
	user, err := s.users.FindByID(ctx, task.AssigneeID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", task.AssigneeID).Msg("assignee lookup failed")
		return
	}
	user.PasswordHash = ""
	task.Assignee = user
}

func (s *TaskService) populateAssignees(ctx context.Context, tasks []*domain.Task) {
	cache := make(map[string]*domain.User)
	for _, task := range tasks {
		if user, ok := cache[task.AssigneeID]; ok {
			task.Assignee = user
			continue
		}
		s.populateAssignee(ctx, task)
		if task.Assignee != nil {
			cache[task.AssigneeID] = task.Assignee
		}
	}
}
