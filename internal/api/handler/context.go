package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-assignment-api/internal/api/middleware"
	"github.com/taskhub/task-assignment-api/internal/core/domain"
)

// actor extracts the authenticated user injected by the Session middleware.
// Its absence means the middleware did not run on this route, which is a
// wiring bug surfaced as a 401 rather than a panic.
func actor(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ActorKey).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}
	return user, nil
}
