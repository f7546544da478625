package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/taskhub/task-assignment-api/internal/core/domain"
	"github.com/taskhub/task-assignment-api/internal/core/policy"
	"github.com/taskhub/task-assignment-api/internal/core/ports"
)

// UserService implements the admin-facing directory operations.
type UserService struct {
	users ports.UserRepository
	tasks ports.TaskRepository
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, tasks ports.TaskRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, tasks: tasks, log: log}
}

// ListUsers returns every non-admin user. Admin accounts never appear in
// the listing, the requesting admin's own account included.
func (s *UserService) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if d := policy.Decide(actor, policy.ActionListAllUsers, nil); !d.Allowed {
		return nil, domain.Forbidden(d.Reason)
	}

	users, err := s.users.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrNoResults
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// GetUserWithTasks returns one user with all their tasks embedded.
func (s *UserService) GetUserWithTasks(ctx context.Context, actor *domain.User, userID string) (*ports.UserDetail, error) {
	if d := policy.Decide(actor, policy.ActionGetUserByID, nil); !d.Allowed {
		return nil, domain.Forbidden(d.Reason)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""

	tasks, err := s.tasks.ListByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ports.UserDetail{User: user, Tasks: tasks}, nil
}

// DeleteUser removes the user and then their tasks. The cascade is two
// sequential operations, not a transaction: a crash between them leaves
// orphaned tasks behind. Known gap, inherited from the source behavior.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.User, userID string) error {
	if d := policy.Decide(actor, policy.ActionDeleteUser, nil); !d.Allowed {
		return domain.Forbidden(d.Reason)
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	if err := s.tasks.DeleteByAssignee(ctx, userID); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("cascade task delete failed")
		return err
	}

	s.log.Info().Str("user_id", userID).Msg("user deleted")
	return nil
}
