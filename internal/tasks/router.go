package tasks

import (
	"github.com/gin-gonic/gin"

	"taskly/internal/shared/middleware"
	"taskly/internal/users"
)

func SetupTaskRoutes(router *gin.RouterGroup, controller *Controller) {
	taskRoutes := router.Group("/tasks")
	taskRoutes.Use(middleware.RequireRole(users.RoleUser))
	{
		taskRoutes.POST("", controller.CreateTask)                           // POST /api/v1/tasks - Create task
		taskRoutes.GET("", controller.GetTasks)                              // GET /api/v1/tasks - Current user's tasks, most urgent first
		taskRoutes.GET("/overdue", controller.GetOverdueTasks)               // GET /api/v1/tasks/overdue - Past-due tasks
		taskRoutes.GET("/status/:status", controller.GetTasksByStatus)       // GET /api/v1/tasks/status/:status
		taskRoutes.GET("/priority/:priority", controller.GetTasksByPriority) // GET /api/v1/tasks/priority/:priority
		taskRoutes.GET("/project/:projectId", controller.GetTasksByProject)  // GET /api/v1/tasks/project/:projectId
		taskRoutes.GET("/:id", controller.GetTask)                           // GET /api/v1/tasks/:id
		taskRoutes.PUT("/:id", controller.UpdateTask)                        // PUT /api/v1/tasks/:id
		taskRoutes.PUT("/:id/status/:status", controller.UpdateTaskStatus)   // PUT /api/v1/tasks/:id/status/:status
		taskRoutes.POST("/:id/assignees/:userId", controller.AddAssignee)    // POST /api/v1/tasks/:id/assignees/:userId
		taskRoutes.DELETE("/:id/assignees/:userId", controller.RemoveAssignee)
	}
}
