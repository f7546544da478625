package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-assignment-api/internal/core/domain"
	"github.com/taskhub/task-assignment-api/internal/core/ports"
)

func TestTaskHandler_MyTasks_EmptyIs404WithEmptyList(t *testing.T) {
	svc := &stubTaskService{
		listOwnFn: func(_ context.Context, _ *domain.User) ([]*domain.Task, error) {
			return nil, domain.ErrNoResults
		},
	}
	h := NewTaskHandler(svc, &stubStager{})

	req := httptest.NewRequest(http.MethodGet, "/tasks/user-tasks", nil)
	c, rec := newContext(t, req, testMember)

	if err := h.MyTasks(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("empty result must not be a success envelope")
	}
	if env.Message != "No tasks found for this user" {
		t.Errorf("unexpected message %q", env.Message)
	}
	list, ok := env.Data.([]any)
	if !ok || len(list) != 0 {
		t.Errorf("expected empty list payload, got %v", env.Data)
	}
}

func TestTaskHandler_MyTasks_Success(t *testing.T) {
	svc := &stubTaskService{
		listOwnFn: func(_ context.Context, actor *domain.User) ([]*domain.Task, error) {
			if actor.ID != testMember.ID {
				t.Fatalf("wrong actor: %s", actor.ID)
			}
			return []*domain.Task{{ID: "task-1", Title: "t", AssigneeID: actor.ID}}, nil
		},
	}
	h := NewTaskHandler(svc, &stubStager{})

	req := httptest.NewRequest(http.MethodGet, "/tasks/user-tasks", nil)
	c, rec := newContext(t, req, testMember)

	if err := h.MyTasks(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success || env.StatusCode != http.StatusOK {
		t.Errorf("bad envelope: %+v", env)
	}
}

func TestTaskHandler_Filter_MapsCriteria(t *testing.T) {
	var got ports.TaskFilter
	svc := &stubTaskService{
		filterFn: func(_ context.Context, _ *domain.User, filter ports.TaskFilter) ([]*domain.Task, error) {
			got = filter
			return []*domain.Task{{ID: "task-1"}}, nil
		},
	}
	h := NewTaskHandler(svc, &stubStager{})

	body := strings.NewReader(`{"priority":"HIGH","dueDate":"2025-06-01"}`)
	req := httptest.NewRequest(http.MethodPost, "/tasks/filter", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newContext(t, req, testMember)

	if err := h.Filter(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if got.Priority != domain.PriorityHigh {
		t.Errorf("priority: want HIGH, got %q", got.Priority)
	}
	if got.Status != "" {
		t.Errorf("status must be unset, got %q", got.Status)
	}
	want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !got.DueFrom.Equal(want) {
		t.Errorf("due from: want %v, got %v", want, got.DueFrom)
	}
}

func TestTaskHandler_Filter_RejectsBadEnum(t *testing.T) {
	svc := &stubTaskService{
		filterFn: func(_ context.Context, _ *domain.User, _ ports.TaskFilter) ([]*domain.Task, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	h := NewTaskHandler(svc, &stubStager{})

	body := strings.NewReader(`{"priority":"URGENT"}`)
	req := httptest.NewRequest(http.MethodPost, "/tasks/filter", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newContext(t, req, testMember)

	if err := h.Filter(c); err != nil {
		c.Echo().HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTaskHandler_UpdateStatus(t *testing.T) {
	svc := &stubTaskService{
		updateStatusFn: func(_ context.Context, actor *domain.User, taskID string, status domain.TaskStatus) (*domain.Task, error) {
			if taskID != "task-9" || status != domain.StatusCompleted {
				t.Fatalf("unexpected args: %s %s", taskID, status)
			}
			return &domain.Task{ID: taskID, Status: status, AssigneeID: actor.ID}, nil
		},
	}
	h := NewTaskHandler(svc, &stubStager{})

	body := strings.NewReader(`{"status":"completed"}`)
	req := httptest.NewRequest(http.MethodPatch, "/tasks/task-9/status", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newContext(t, req, testMember)
	c.SetParamNames("taskId")
	c.SetParamValues("task-9")

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Task status updated successfully" {
		t.Errorf("unexpected message %q", env.Message)
	}
}

func TestTaskHandler_UpdateStatus_RejectsUnknownStatus(t *testing.T) {
	h := NewTaskHandler(&stubTaskService{}, &stubStager{})

	body := strings.NewReader(`{"status":"archived"}`)
	req := httptest.NewRequest(http.MethodPatch, "/tasks/task-9/status", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, rec := newContext(t, req, testMember)

	if err := h.UpdateStatus(c); err != nil {
		c.Echo().HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTaskHandler_Create_Multipart(t *testing.T) {
	var got ports.CreateTaskInput
	svc := &stubTaskService{
		createFn: func(_ context.Context, actor *domain.User, input ports.CreateTaskInput) (*domain.Task, error) {
			got = input
			return &domain.Task{ID: "task-1", Title: input.Title, AssigneeID: input.AssigneeID}, nil
		},
	}
	stager := &stubStager{paths: map[string]string{"spec.pdf": "/tmp/staged-spec.pdf"}}
	h := NewTaskHandler(svc, stager)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	_ = form.WriteField("title", "Ship it")
	_ = form.WriteField("description", "Release checklist")
	_ = form.WriteField("priority", "HIGH")
	_ = form.WriteField("dueDate", "2025-01-01")
	_ = form.WriteField("assignedTo", "member-1")
	fw, _ := form.CreateFormFile("doc1", "spec.pdf")
	_, _ = fw.Write([]byte("pdf bytes"))
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/tasks", &buf)
	req.Header.Set(echo.HeaderContentType, form.FormDataContentType())
	c, rec := newContext(t, req, testAdmin)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if got.Title != "Ship it" || got.AssigneeID != "member-1" {
		t.Errorf("fields not mapped: %+v", got)
	}
	if got.Priority != domain.PriorityHigh {
		t.Errorf("priority: want HIGH, got %q", got.Priority)
	}
	if got.DueDate.IsZero() {
		t.Error("due date not parsed")
	}
	if len(got.StagedFiles) != domain.MaxAttachments || got.StagedFiles[0] != "/tmp/staged-spec.pdf" {
		t.Errorf("staged files not mapped: %v", got.StagedFiles)
	}
	if got.StagedFiles[1] != "" || got.StagedFiles[2] != "" {
		t.Error("unsupplied slots must stay empty")
	}
}

func TestTaskHandler_GetByID_NotFound(t *testing.T) {
	svc := &stubTaskService{
		getFn: func(_ context.Context, _ *domain.User, _ string) (*domain.Task, error) {
			return nil, domain.ErrTaskNotFound
		},
	}
	h := NewTaskHandler(svc, &stubStager{})

	req := httptest.NewRequest(http.MethodGet, "/tasks/ghost", nil)
	c, _ := newContext(t, req, testMember)
	c.SetParamNames("taskId")
	c.SetParamValues("ghost")

	err := h.GetByID(c)
	if err == nil {
		t.Fatal("expected error to propagate to the central handler")
	}
}

func TestTaskHandler_Update_ForbiddenPropagates(t *testing.T) {
	svc := &stubTaskService{
		updateFn: func(_ context.Context, _ *domain.User, _ string, _ ports.TaskUpdate) (*domain.Task, error) {
			return nil, domain.Forbidden("You are not authorized to update this task")
		},
	}
	h := NewTaskHandler(svc, &stubStager{})

	body := strings.NewReader(`{"title":"x"}`)
	req := httptest.NewRequest(http.MethodPatch, "/tasks/task-1", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c, _ := newContext(t, req, testMember)
	c.SetParamNames("taskId")
	c.SetParamValues("task-1")

	err := h.Update(c)
	if err == nil {
		t.Fatal("expected the policy denial to propagate")
	}
}
