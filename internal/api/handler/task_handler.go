package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-assignment-api/internal/api/respond"
	"github.com/taskhub/task-assignment-api/internal/core/domain"
	"github.com/taskhub/task-assignment-api/internal/core/ports"
)

// attachmentFields are the multipart form fields carrying task documents,
// one file per field.
var attachmentFields = [domain.MaxAttachments]string{"doc1", "doc2", "doc3"}

// Stager saves an uploaded file to local staging and returns its path. The
// task service resolves staged paths to durable URLs and removes them.
type Stager interface {
	Stage(fh *multipart.FileHeader) (string, error)
}

// TaskHandler handles the task lifecycle endpoints.
type TaskHandler struct {
	tasks  ports.TaskService
	stager Stager
}

func NewTaskHandler(tasks ports.TaskService, stager Stager) *TaskHandler {
	return &TaskHandler{tasks: tasks, stager: stager}
}

// Create handles the multipart task-creation form: task fields plus up to
// three document files.
//
// @Summary      Create and assign a task (admin)
// @Tags         tasks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Title"
// @Param        description  formData  string  true   "Description"
// @Param        dueDate      formData  string  false  "Due date (YYYY-MM-DD)"
// @Param        priority     formData  string  false  "LOW, MEDIUM or HIGH"
// @Param        assignedTo   formData  string  true   "Assignee user id"
// @Param        doc1         formData  file    false  "Attachment 1"
// @Param        doc2         formData  file    false  "Attachment 2"
// @Param        doc3         formData  file    false  "Attachment 3"
// @Success      201  {object}  respond.Envelope
// @Failure      400  {object}  respond.Envelope
// @Failure      403  {object}  respond.Envelope
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	input := ports.CreateTaskInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Priority:    domain.TaskPriority(c.FormValue("priority")),
		AssigneeID:  c.FormValue("assignedTo"),
	}

	if raw := c.FormValue("dueDate"); raw != "" {
		due, err := parseDate(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid due date")
		}
		input.DueDate = due
	}

	staged, err := h.stageAttachments(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid attachment")
	}
	input.StagedFiles = staged

	task, err := h.tasks.Create(c.Request().Context(), user, input)
	if err != nil {
		return err
	}

	return respond.JSON(c, http.StatusCreated, task, "Task created successfully")
}

func (h *TaskHandler) stageAttachments(c echo.Context) ([]string, error) {
	staged := make([]string, domain.MaxAttachments)
	for i, field := range attachmentFields {
		fh, err := c.FormFile(field)
		if err != nil {
			continue // slot not supplied
		}
		path, err := h.stager.Stage(fh)
		if err != nil {
			return nil, err
		}
		staged[i] = path
	}
	return staged, nil
}

// MyTasks returns the actor's own tasks, newest first.
//
// @Summary      List own tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  respond.Envelope
// @Failure      404  {object}  respond.Envelope
// @Router       /tasks/user-tasks [get]
func (h *TaskHandler) MyTasks(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListOwn(c.Request().Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrNoResults) {
			return respond.Empty(c, []*domain.Task{}, "No tasks found for this user")
		}
		return err
	}

	return respond.JSON(c, http.StatusOK, tasks, "User tasks fetched successfully")
}

// Filter applies the optional status/priority/due-date predicates over the
// actor's tasks.
//
// @Summary      Filter own tasks
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      filterTasksRequest  true  "Filter criteria, all optional"
// @Success      200   {object}  respond.Envelope
// @Failure      404   {object}  respond.Envelope
// @Router       /tasks/filter [post]
func (h *TaskHandler) Filter(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req filterTasksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	filter := ports.TaskFilter{
		Status:   domain.TaskStatus(req.Status),
		Priority: domain.TaskPriority(req.Priority),
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid due date")
		}
		filter.DueFrom = due
	}

	tasks, err := h.tasks.FilterOwn(c.Request().Context(), user, filter)
	if err != nil {
		if errors.Is(err, domain.ErrNoResults) {
			return respond.Empty(c, []*domain.Task{}, "No tasks found with the given filters")
		}
		return err
	}

	return respond.JSON(c, http.StatusOK, tasks, "Tasks filtered successfully")
}

// GetByID returns a single task to any authenticated actor.
//
// @Summary      Get a task by id
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string  true  "Task id"
// @Success      200     {object}  respond.Envelope
// @Failure      404     {object}  respond.Envelope
// @Router       /tasks/{taskId} [get]
func (h *TaskHandler) GetByID(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.GetByID(c.Request().Context(), user, c.Param("taskId"))
	if err != nil {
		return err
	}

	return respond.JSON(c, http.StatusOK, task, "Task fetched successfully")
}

// UpdateStatus sets the task status; only the assignee may call this.
//
// @Summary      Update task status (assignee)
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string               true  "Task id"
// @Param        body    body      updateStatusRequest  true  "New status"
// @Success      200     {object}  respond.Envelope
// @Failure      403     {object}  respond.Envelope
// @Failure      404     {object}  respond.Envelope
// @Router       /tasks/{taskId}/status [patch]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.tasks.UpdateStatus(c.Request().Context(), user, c.Param("taskId"), domain.TaskStatus(req.Status))
	if err != nil {
		return err
	}

	return respond.JSON(c, http.StatusOK, task, "Task status updated successfully")
}

// Update applies a partial content edit; the task is forced to completed as
// a side effect.
//
// @Summary      Update task content (admin)
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string             true  "Task id"
// @Param        body    body      updateTaskRequest  true  "Fields to update, at least one"
// @Success      200     {object}  respond.Envelope
// @Failure      400     {object}  respond.Envelope
// @Failure      403     {object}  respond.Envelope
// @Failure      404     {object}  respond.Envelope
// @Router       /tasks/{taskId} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	update := ports.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		update.Priority = &priority
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid due date")
		}
		update.DueDate = &due
	}

	task, err := h.tasks.UpdateContent(c.Request().Context(), user, c.Param("taskId"), update)
	if err != nil {
		return err
	}

	return respond.JSON(c, http.StatusOK, task, "Task updated successfully")
}

// Delete removes a task.
//
// @Summary      Delete a task (admin)
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      string  true  "Task id"
// @Success      200     {object}  respond.Envelope
// @Failure      403     {object}  respond.Envelope
// @Failure      404     {object}  respond.Envelope
// @Router       /tasks/{taskId} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.tasks.Delete(c.Request().Context(), user, c.Param("taskId")); err != nil {
		return err
	}

	return respond.JSON(c, http.StatusOK, nil, "Task deleted successfully")
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
