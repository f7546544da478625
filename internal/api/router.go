package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/taskhub/task-assignment-api/docs"
	"github.com/taskhub/task-assignment-api/internal/api/handler"
	"github.com/taskhub/task-assignment-api/internal/api/middleware"
	"github.com/taskhub/task-assignment-api/internal/core/ports"
	"github.com/taskhub/task-assignment-api/internal/core/service"
	"github.com/taskhub/task-assignment-api/internal/infrastructure/config"
	mongodb "github.com/taskhub/task-assignment-api/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhub/task-assignment-api/internal/infrastructure/db/redis"
)

// Dependencies carries the externally constructed resources the router
// builds the application around.
type Dependencies struct {
	Config   *config.Config
	Log      zerolog.Logger
	Mongo    *mongo.Database
	Redis    *redis.Client
	Resolver ports.AttachmentResolver
	Stager   handler.Stager
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{deps.Config.CORSOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("taskhub"))

	userRepo := mongodb.NewUserRepository(deps.Mongo)
	taskRepo := mongodb.NewTaskRepository(deps.Mongo)
	tokenStore := redisdb.NewTokenStore(deps.Redis)

	authService := service.NewAuthService(userRepo, tokenStore, service.TokenConfig{
		AccessSecret:  deps.Config.JWT.AccessSecret,
		RefreshSecret: deps.Config.JWT.RefreshSecret,
		AccessTTL:     deps.Config.JWT.AccessTTL,
		RefreshTTL:    deps.Config.JWT.RefreshTTL,
	}, deps.Log)
	taskService := service.NewTaskService(taskRepo, userRepo, deps.Resolver, deps.Log)
	userService := service.NewUserService(userRepo, taskRepo, deps.Log)

	authHandler := handler.NewAuthHandler(authService, handler.CookieOptions{
		Secure:     deps.Config.IsProduction(),
		AccessTTL:  deps.Config.JWT.AccessTTL,
		RefreshTTL: deps.Config.JWT.RefreshTTL,
	})
	taskHandler := handler.NewTaskHandler(taskService, deps.Stager)
	adminHandler := handler.NewAdminHandler(userService, taskService)
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)

	session := middleware.Session(authService)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	v1 := e.Group("/api/v1")

	users := v1.Group("/users")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)
	users.POST("/refresh-token", authHandler.Refresh)
	users.POST("/logout", authHandler.Logout, session)
	users.GET("/check-auth", authHandler.CheckAuth, session)

	tasks := v1.Group("/tasks", session)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/user-tasks", taskHandler.MyTasks)
	tasks.POST("/filter", taskHandler.Filter)
	tasks.GET("/:taskId", taskHandler.GetByID)
	tasks.PATCH("/:taskId/status", taskHandler.UpdateStatus)
	tasks.PATCH("/:taskId", taskHandler.Update)
	tasks.DELETE("/:taskId", taskHandler.Delete)

	admin := v1.Group("/admin", session)
	admin.GET("", adminHandler.ListUsers)
	admin.GET("/tasks", adminHandler.ListTasks)
	admin.GET("/:userId", adminHandler.GetUser)
	admin.DELETE("/:userId", adminHandler.DeleteUser)

	return e
}
