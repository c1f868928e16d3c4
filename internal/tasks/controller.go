package tasks

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"taskly/internal/auth"
	"taskly/internal/shared/utils/response"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (c *Controller) CreateTask(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.Create(ctx.Request.Context(), identity, &req)
	if err != nil {
		c.respondServiceError(ctx, err, "Failed to create task")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Task created successfully", resp, nil)
}

func (c *Controller) GetTasks(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	tasks, err := c.service.List(ctx.Request.Context(), identity)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch tasks", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tasks retrieved successfully", tasks, nil)
}

func (c *Controller) GetTask(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	id, ok := c.pathUUID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.service.Get(ctx.Request.Context(), identity, id)
	if err != nil {
		c.respondServiceError(ctx, err, "Failed to fetch task")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Task retrieved successfully", resp, nil)
}

func (c *Controller) UpdateTask(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	id, ok := c.pathUUID(ctx, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	resp, err := c.service.Update(ctx.Request.Context(), identity, id, &req)
	if err != nil {
		c.respondServiceError(ctx, err, "Failed to update task")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Task updated successfully", resp, nil)
}

func (c *Controller) UpdateTaskStatus(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	id, ok := c.pathUUID(ctx, "id")
	if !ok {
		return
	}

	status, ok := ParseStatus(ctx.Param("status"))
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid task status", nil, nil)
		return
	}

	resp, err := c.service.UpdateStatus(ctx.Request.Context(), identity, id, status)
	if err != nil {
		c.respondServiceError(ctx, err, "Failed to update task status")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Task status updated successfully", resp, nil)
}

func (c *Controller) GetTasksByStatus(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	status, ok := ParseStatus(ctx.Param("status"))
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid task status", nil, nil)
		return
	}

	tasks, err := c.service.ListByStatus(ctx.Request.Context(), identity, status)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch tasks", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tasks retrieved successfully", tasks, nil)
}

func (c *Controller) GetTasksByPriority(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	priority, ok := ParsePriority(ctx.Param("priority"))
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid task priority", nil, nil)
		return
	}

	tasks, err := c.service.ListByPriority(ctx.Request.Context(), identity, priority)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch tasks", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tasks retrieved successfully", tasks, nil)
}

func (c *Controller) GetOverdueTasks(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	tasks, err := c.service.ListOverdue(ctx.Request.Context(), identity)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch tasks", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Overdue tasks retrieved successfully", tasks, nil)
}

func (c *Controller) GetTasksByProject(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	projectID, ok := c.pathUUID(ctx, "projectId")
	if !ok {
		return
	}

	tasks, err := c.service.ListByProject(ctx.Request.Context(), identity, projectID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch tasks", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tasks retrieved successfully", tasks, nil)
}

func (c *Controller) AddAssignee(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	taskID, ok := c.pathUUID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := c.pathUUID(ctx, "userId")
	if !ok {
		return
	}

	resp, err := c.service.AddAssignee(ctx.Request.Context(), identity, taskID, userID)
	if err != nil {
		c.respondServiceError(ctx, err, "Failed to add assignee")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Assignee added successfully", resp, nil)
}

func (c *Controller) RemoveAssignee(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	taskID, ok := c.pathUUID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := c.pathUUID(ctx, "userId")
	if !ok {
		return
	}

	resp, err := c.service.RemoveAssignee(ctx.Request.Context(), identity, taskID, userID)
	if err != nil {
		c.respondServiceError(ctx, err, "Failed to remove assignee")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Assignee removed successfully", resp, nil)
}

func (c *Controller) pathUUID(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid id in path", nil, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (c *Controller) respondServiceError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrTaskNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Task not found", nil, nil)
	case errors.Is(err, ErrProjectNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Project not found", nil, nil)
	case errors.Is(err, ErrAssigneeNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "User not found", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}
