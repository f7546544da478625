package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/task-assignment-api/internal/api/metrics"
	"github.com/taskhub/task-assignment-api/internal/api/middleware"
	"github.com/taskhub/task-assignment-api/internal/api/respond"
	"github.com/taskhub/task-assignment-api/internal/core/domain"
	"github.com/taskhub/task-assignment-api/internal/core/ports"
)

const refreshCookie = "refreshToken"

// CookieOptions controls how the session credential cookies are written.
type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthHandler handles registration, login, and session endpoints.
type AuthHandler struct {
	auth    ports.AuthService
	cookies CookieOptions
}

func NewAuthHandler(auth ports.AuthService, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

type sessionResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// Register creates a member account. No auto-login: the response carries the
// user only.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  respond.Envelope
// @Failure      400   {object}  respond.Envelope
// @Failure      409   {object}  respond.Envelope
// @Router       /users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.auth.Register(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return respond.JSON(c, http.StatusCreated, user, "User registered successfully")
}

// Login verifies credentials and issues the session token pair, both as
// HttpOnly cookies and in the body for non-browser clients.
//
// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  respond.Envelope
// @Failure      401   {object}  respond.Envelope
// @Router       /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	h.setSessionCookies(c, pair)
	return respond.JSON(c, http.StatusOK, sessionResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "User logged in successfully")
}

// Logout revokes the stored refresh token and clears the session cookies.
//
// @Summary      Log out
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  respond.Envelope
// @Failure      401  {object}  respond.Envelope
// @Router       /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.auth.Logout(c.Request().Context(), user.ID); err != nil {
		return err
	}

	h.clearSessionCookies(c)
	return respond.JSON(c, http.StatusOK, nil, "User logged out successfully")
}

// Refresh reissues the token pair from the refresh token, taken from the
// refreshToken cookie or the body.
//
// @Summary      Refresh the session tokens
// @Tags         users
// @Accept       json
// @Produce      json
// @Success      200  {object}  respond.Envelope
// @Failure      401  {object}  respond.Envelope
// @Router       /users/refresh-token [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(refreshCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req refreshRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}

	pair, user, err := h.auth.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	h.setSessionCookies(c, pair)
	return respond.JSON(c, http.StatusOK, sessionResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Access token refreshed")
}

// CheckAuth returns the authenticated user, letting the browser client
// restore its session on load.
//
// @Summary      Check authentication
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  respond.Envelope
// @Failure      401  {object}  respond.Envelope
// @Router       /users/check-auth [get]
func (h *AuthHandler) CheckAuth(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	return respond.JSON(c, http.StatusOK, map[string]*domain.User{"user": user}, "User is authenticated")
}

func (h *AuthHandler) setSessionCookies(c echo.Context, pair *ports.TokenPair) {
	c.SetCookie(h.sessionCookie(middleware.AccessCookie, pair.AccessToken, h.cookies.AccessTTL))
	c.SetCookie(h.sessionCookie(refreshCookie, pair.RefreshToken, h.cookies.RefreshTTL))
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	c.SetCookie(h.sessionCookie(middleware.AccessCookie, "", -time.Second))
	c.SetCookie(h.sessionCookie(refreshCookie, "", -time.Second))
}

func (h *AuthHandler) sessionCookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
