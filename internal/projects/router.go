package projects

import (
	"github.com/gin-gonic/gin"

	"taskly/internal/shared/middleware"
	"taskly/internal/users"
)

func SetupProjectRoutes(router *gin.RouterGroup, controller *Controller) {
	projectRoutes := router.Group("/projects")
	projectRoutes.Use(middleware.RequireRole(users.RoleUser))
	{
		projectRoutes.POST("", controller.CreateProject)                    // POST /api/v1/projects - Create project
		projectRoutes.GET("", controller.GetProjects)                       // GET /api/v1/projects - Current user's projects
		projectRoutes.GET("/:id", controller.GetProject)                    // GET /api/v1/projects/:id
		projectRoutes.PUT("/:id", controller.UpdateProject)                 // PUT /api/v1/projects/:id
		projectRoutes.DELETE("/:id", controller.DeleteProject)              // DELETE /api/v1/projects/:id
		projectRoutes.POST("/:id/members", controller.AddMember)            // POST /api/v1/projects/:id/members
		projectRoutes.DELETE("/:id/members/:userId", controller.RemoveMember)
	}
}
