package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskly/internal/auth"
	"taskly/internal/notifications"
	"taskly/internal/projects"
	"taskly/internal/shared/config"
	"taskly/internal/shared/database"
	"taskly/internal/shared/middleware"
	"taskly/internal/tasks"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	notifier *notifications.Service

	// Shared between route groups
	authRepo       auth.Repository
	tokenService   *auth.TokenService
	userDirectory  *auth.UserDirectory
	projectService projects.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, notifier *notifications.Service) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Shared auth plumbing: the repository doubles as the principal
	// source for the authentication filter and, through the directory
	// adapter, as the user lookup for tasks and projects.
	r.authRepo = auth.NewRepository(r.db.GetPostgreSQL())
	r.tokenService = auth.NewTokenService(r.config)
	r.userDirectory = auth.NewUserDirectory(r.authRepo)

	// Every request passes through the authentication filter. It only
	// establishes identity; route groups decide what to require.
	engine.Use(middleware.Authenticate(r.tokenService, r.authRepo))

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// Projects before tasks: the task service leans on the project
		// service for existence checks and member bookkeeping.
		r.setupProjectRoutes(api)
		r.setupTaskRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "taskly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "taskly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authService := auth.NewService(r.authRepo, r.tokenService)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	authRouter.SetupRoutes(rg, middleware.RequireAuth())
}

// setupProjectRoutes configures project management routes
func (r *Router) setupProjectRoutes(rg *gin.RouterGroup) {
	projectRepo := projects.NewRepository(r.db.GetPostgreSQL())
	r.projectService = projects.NewService(projectRepo, r.userDirectory, r.notifier)
	projectController := projects.NewController(r.projectService)

	projects.SetupProjectRoutes(rg, projectController)
}

// setupTaskRoutes configures task management routes
func (r *Router) setupTaskRoutes(rg *gin.RouterGroup) {
	taskRepo := tasks.NewRepository(r.db.GetPostgreSQL())
	taskService := tasks.NewService(taskRepo, r.projectService, r.userDirectory, r.notifier)
	taskController := tasks.NewController(taskService)

	tasks.SetupTaskRoutes(rg, taskController)
}
