package service

import (
	"context"
	"errors"
	"testing"

	"github.com/taskhub/task-assignment-api/internal/core/domain"
	"github.com/taskhub/task-assignment-api/internal/core/ports"
)

func TestUserService_ListUsers_ExcludesAdmins(t *testing.T) {
	users := newStubUserRepo()
	admin, _ := testActors(users)
	users.seed(&domain.User{ID: "admin-2", Name: "Second", Email: "second@example.com", Role: domain.RoleAdmin})
	svc := NewUserService(users, newStubTaskRepo(), discardLogger)

	got, err := svc.ListUsers(context.Background(), admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, u := range got {
		if u.Role == domain.RoleAdmin {
			t.Errorf("listing leaked admin %s", u.ID)
		}
		if u.PasswordHash != "" {
			t.Errorf("listing leaked a credential hash for %s", u.ID)
		}
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 member, got %d", len(got))
	}
}

func TestUserService_ListUsers_MemberForbidden(t *testing.T) {
	users := newStubUserRepo()
	_, member := testActors(users)
	svc := NewUserService(users, newStubTaskRepo(), discardLogger)

	_, err := svc.ListUsers(context.Background(), member)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_ListUsers_EmptyIsNoResults(t *testing.T) {
	users := newStubUserRepo()
	admin := users.seed(&domain.User{ID: "admin-1", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin})
	svc := NewUserService(users, newStubTaskRepo(), discardLogger)

	_, err := svc.ListUsers(context.Background(), admin)
	if !errors.Is(err, domain.ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestUserService_GetUserWithTasks(t *testing.T) {
	users := newStubUserRepo()
	tasks := newStubTaskRepo()
	admin, member := testActors(users)

	taskSvc := newTaskService(users, tasks)
	seedTask(t, taskSvc, admin, member.ID, nil)
	seedTask(t, taskSvc, admin, member.ID, nil)

	svc := NewUserService(users, tasks, discardLogger)

	detail, err := svc.GetUserWithTasks(context.Background(), admin, member.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.User.ID != member.ID {
		t.Errorf("user: want %s, got %s", member.ID, detail.User.ID)
	}
	if detail.User.PasswordHash != "" {
		t.Error("detail must not carry a credential hash")
	}
	if len(detail.Tasks) != 2 {
		t.Errorf("expected 2 embedded tasks, got %d", len(detail.Tasks))
	}
}

func TestUserService_GetUserWithTasks_NotFound(t *testing.T) {
	users := newStubUserRepo()
	admin, _ := testActors(users)
	svc := NewUserService(users, newStubTaskRepo(), discardLogger)

	_, err := svc.GetUserWithTasks(context.Background(), admin, "user-missing")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_DeleteUser_CascadesTasks(t *testing.T) {
	users := newStubUserRepo()
	tasks := newStubTaskRepo()
	admin, member := testActors(users)

	taskSvc := newTaskService(users, tasks)
	doomed := seedTask(t, taskSvc, admin, member.ID, nil)
	kept := seedTask(t, taskSvc, admin, admin.ID, nil)

	svc := NewUserService(users, tasks, discardLogger)
	if err := svc.DeleteUser(context.Background(), admin, member.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := users.FindByID(context.Background(), member.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Error("user must be gone")
	}
	if _, err := tasks.FindByID(context.Background(), doomed.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Error("the deleted user's tasks must be gone")
	}
	if _, err := tasks.FindByID(context.Background(), kept.ID); err != nil {
		t.Error("other users' tasks must survive the cascade")
	}
}

func TestUserService_DeleteUser_MemberForbidden(t *testing.T) {
	users := newStubUserRepo()
	_, member := testActors(users)
	svc := NewUserService(users, newStubTaskRepo(), discardLogger)

	err := svc.DeleteUser(context.Background(), member, member.ID)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_DeleteUser_NotFound(t *testing.T) {
	users := newStubUserRepo()
	admin, _ := testActors(users)
	svc := NewUserService(users, newStubTaskRepo(), discardLogger)

	err := svc.DeleteUser(context.Background(), admin, "user-missing")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

var _ ports.UserService = (*UserService)(nil)
