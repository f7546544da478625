package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhub/task-assignment-api/internal/core/domain"
	"github.com/taskhub/task-assignment-api/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	if u.ID == "" {
		r.seq++
		u.ID = fmt.Sprintf("user-%d", r.seq)
	}
	clone := *u
	r.users[u.ID] = &clone
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	clone := *user
	r.users[user.ID] = &clone
	out := *user
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListMembers(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == domain.RoleAdmin {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// ---------------------------------------------------------------------------
// In-memory stub task repository
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	tasks map[string]*domain.Task
	seq   int
	err   error // when set, every method returns it
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.seq++
	task.ID = fmt.Sprintf("task-%d", r.seq)
	clone := *task
	r.tasks[task.ID] = &clone
	out := *task
	return &out, nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) UpdateContent(_ context.Context, id string, update ports.TaskUpdate) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Description != nil {
		t.Description = *update.Description
	}
	if update.DueDate != nil {
		due := *update.DueDate
		t.DueDate = &due
	}
	if update.Priority != nil {
		t.Priority = *update.Priority
	}
	// Mirrors the real store: every content edit completes the task.
	t.Status = domain.StatusCompleted
	t.UpdatedAt = time.Now().UTC()
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) UpdateStatus(_ context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *stubTaskRepo) ListByAssignee(_ context.Context, assigneeID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.AssigneeID != assigneeID {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *stubTaskRepo) Filter(_ context.Context, assigneeID string, filter ports.TaskFilter) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.AssigneeID != assigneeID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if !filter.DueFrom.IsZero() {
			if t.DueDate == nil || t.DueDate.Before(filter.DueFrom) {
				continue
			}
		}
		clone := *t
		out = append(out, &clone)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *stubTaskRepo) ListExcludingAssignee(_ context.Context, assigneeID string) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.AssigneeID == assigneeID {
			continue
		}
		clone := *t
		out = append(out, &clone)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *stubTaskRepo) DeleteByAssignee(_ context.Context, assigneeID string) error {
	if r.err != nil {
		return r.err
	}
	for id, t := range r.tasks {
		if t.AssigneeID == assigneeID {
			delete(r.tasks, id)
		}
	}
	return nil
}

func sortNewestFirst(tasks []*domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

// ---------------------------------------------------------------------------
// Stub attachment resolver and token store
// ---------------------------------------------------------------------------

type stubResolver struct {
	urls  map[string]string // staged path -> resolved URL
	calls []string
}

func (s *stubResolver) Resolve(_ context.Context, localPath string) (string, error) {
	s.calls = append(s.calls, localPath)
	url, ok := s.urls[localPath]
	if !ok {
		return "", errors.New("upload failed")
	}
	return url, nil
}

type stubTokenStore struct {
	tokens map[string]string
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{tokens: make(map[string]string)}
}

func (s *stubTokenStore) Save(_ context.Context, userID, refreshToken string, _ time.Duration) error {
	s.tokens[userID] = refreshToken
	return nil
}

func (s *stubTokenStore) Get(_ context.Context, userID string) (string, error) {
	return s.tokens[userID], nil
}

func (s *stubTokenStore) Delete(_ context.Context, userID string) error {
	delete(s.tokens, userID)
	return nil
}
