package handler

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-assignment-api/internal/api/middleware"
	"github.com/taskhub/task-assignment-api/internal/api/respond"
	"github.com/taskhub/task-assignment-api/internal/core/domain"
	"github.com/taskhub/task-assignment-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub services
// ---------------------------------------------------------------------------

type stubTaskService struct {
	createFn       func(ctx context.Context, actor *domain.User, input ports.CreateTaskInput) (*domain.Task, error)
	getFn          func(ctx context.Context, actor *domain.User, taskID string) (*domain.Task, error)
	updateFn       func(ctx context.Context, actor *domain.User, taskID string, update ports.TaskUpdate) (*domain.Task, error)
	updateStatusFn func(ctx context.Context, actor *domain.User, taskID string, status domain.TaskStatus) (*domain.Task, error)
	deleteFn       func(ctx context.Context, actor *domain.User, taskID string) error
	listOwnFn      func(ctx context.Context, actor *domain.User) ([]*domain.Task, error)
	filterFn       func(ctx context.Context, actor *domain.User, filter ports.TaskFilter) ([]*domain.Task, error)
	listAllFn      func(ctx context.Context, actor *domain.User) ([]*domain.Task, error)
}

func (s *stubTaskService) Create(ctx context.Context, actor *domain.User, input ports.CreateTaskInput) (*domain.Task, error) {
	return s.createFn(ctx, actor, input)
}

func (s *stubTaskService) GetByID(ctx context.Context, actor *domain.User, taskID string) (*domain.Task, error) {
	return s.getFn(ctx, actor, taskID)
}

func (s *stubTaskService) UpdateContent(ctx context.Context, actor *domain.User, taskID string, update ports.TaskUpdate) (*domain.Task, error) {
	return s.updateFn(ctx, actor, taskID, update)
}

func (s *stubTaskService) UpdateStatus(ctx context.Context, actor *domain.User, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	return s.updateStatusFn(ctx, actor, taskID, status)
}

func (s *stubTaskService) Delete(ctx context.Context, actor *domain.User, taskID string) error {
	return s.deleteFn(ctx, actor, taskID)
}

func (s *stubTaskService) ListOwn(ctx context.Context, actor *domain.User) ([]*domain.Task, error) {
	return s.listOwnFn(ctx, actor)
}

func (s *stubTaskService) FilterOwn(ctx context.Context, actor *domain.User, filter ports.TaskFilter) ([]*domain.Task, error) {
	return s.filterFn(ctx, actor, filter)
}

func (s *stubTaskService) ListAll(ctx context.Context, actor *domain.User) ([]*domain.Task, error) {
	return s.listAllFn(ctx, actor)
}

type stubUserService struct {
	listFn   func(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	getFn    func(ctx context.Context, actor *domain.User, userID string) (*ports.UserDetail, error)
	deleteFn func(ctx context.Context, actor *domain.User, userID string) error
}

func (s *stubUserService) ListUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	return s.listFn(ctx, actor)
}

func (s *stubUserService) GetUserWithTasks(ctx context.Context, actor *domain.User, userID string) (*ports.UserDetail, error) {
	return s.getFn(ctx, actor, userID)
}

func (s *stubUserService) DeleteUser(ctx context.Context, actor *domain.User, userID string) error {
	return s.deleteFn(ctx, actor, userID)
}

type stubAuthService struct {
	registerFn func(ctx context.Context, name, email, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error)
	logoutFn   func(ctx context.Context, userID string) error
	refreshFn  func(ctx context.Context, refreshToken string) (*ports.TokenPair, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, userID string) error {
	return s.logoutFn(ctx, userID)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, *domain.User, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	return nil, domain.ErrNotAuthenticated
}

type stubStager struct {
	paths map[string]string // filename -> staged path
}

func (s *stubStager) Stage(fh *multipart.FileHeader) (string, error) {
	return s.paths[fh.Filename], nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	testAdmin  = &domain.User{ID: "admin-1", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin}
	testMember = &domain.User{ID: "member-1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleMember}
)

// newContext builds an echo context with the validator installed and the
// actor injected, mirroring what the router and Session middleware set up.
func newContext(t *testing.T, req *http.Request, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.ActorKey, user)
	}
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) respond.Envelope {
	t.Helper()
	var env respond.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope json: %v", err)
	}
	return env
}
