package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-assignment-api/internal/api/respond"
	"github.com/taskhub/task-assignment-api/internal/core/domain"
	"github.com/taskhub/task-assignment-api/internal/core/ports"
)

// AdminHandler handles the admin-only user directory endpoints.
type AdminHandler struct {
	users ports.UserService
	tasks ports.TaskService
}

func NewAdminHandler(users ports.UserService, tasks ports.TaskService) *AdminHandler {
	return &AdminHandler{users: users, tasks: tasks}
}

// ListUsers returns every non-admin user.
//
// @Summary      List all users (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  respond.Envelope
// @Failure      403  {object}  respond.Envelope
// @Failure      404  {object}  respond.Envelope
// @Router       /admin [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	users, err := h.users.ListUsers(c.Request().Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrNoResults) {
			return respond.Empty(c, []*domain.User{}, "No users found")
		}
		return err
	}

	return respond.JSON(c, http.StatusOK, users, "Users fetched successfully")
}

// ListTasks returns every task not assigned to the requesting admin.
//
// @Summary      List all tasks (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  respond.Envelope
// @Failure      403  {object}  respond.Envelope
// @Failure      404  {object}  respond.Envelope
// @Router       /admin/tasks [get]
func (h *AdminHandler) ListTasks(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListAll(c.Request().Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrNoResults) {
			return respond.Empty(c, []*domain.Task{}, "no task found")
		}
		return err
	}

	return respond.JSON(c, http.StatusOK, tasks, "Tasks fetched successfully!")
}

// GetUser returns one user with their tasks embedded.
//
// @Summary      Get a user with their tasks (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  respond.Envelope
// @Failure      403     {object}  respond.Envelope
// @Failure      404     {object}  respond.Envelope
// @Router       /admin/{userId} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	detail, err := h.users.GetUserWithTasks(c.Request().Context(), user, c.Param("userId"))
	if err != nil {
		return err
	}

	return respond.JSON(c, http.StatusOK, detail, "User fetched successfully")
}

// DeleteUser removes a user and cascades deletion of their tasks.
//
// @Summary      Delete a user and their tasks (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  respond.Envelope
// @Failure      403     {object}  respond.Envelope
// @Failure      404     {object}  respond.Envelope
// @Router       /admin/{userId} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.users.DeleteUser(c.Request().Context(), user, c.Param("userId")); err != nil {
		return err
	}

	return respond.JSON(c, http.StatusOK, nil, "User deleted successfully")
}
