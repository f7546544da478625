package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-assignment-api/internal/core/domain"
)

// ActorKey is the echo.Context key under which Session stores the
// authenticated user.
const ActorKey = "actor"

// AccessCookie is the cookie the browser client carries the access token in.
const AccessCookie = "accessToken"

// Authenticator resolves an access token to a live user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

// Session resolves the request credential to a User and injects it into the
// context. The token is read from the accessToken cookie or, failing that,
// a bearer Authorization header. Every failure is the same 401 so callers
// cannot probe which check tripped.
func Session(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}

			c.Set(ActorKey, user)
			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(AccessCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
