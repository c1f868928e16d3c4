package auth

import (
	"github.com/gin-gonic/gin"
)

// Router handles auth-related routes
type Router struct {
	controller *Controller
}

// NewRouter creates a new auth router
func NewRouter(controller *Controller) *Router {
	return &Router{
		controller: controller,
	}
}

// SetupRoutes registers all auth routes. The requireAuth guard is passed
// in by the top-level router so this package stays free of middleware
// imports.
func (r *Router) SetupRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	authRoutes := rg.Group("/auth")
	{
		// Public routes (no authentication required)
		authRoutes.POST("/register", r.controller.Register)
		authRoutes.POST("/login", r.controller.Login)
		authRoutes.POST("/refresh", r.controller.Refresh)

		// Protected routes (authentication required)
		protected := authRoutes.Group("")
		protected.Use(requireAuth)
		{
			protected.GET("/me", r.controller.GetMe)
		}
	}
}
