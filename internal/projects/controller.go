package projects

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

func (c *Controller) CreateProject(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	var req ProjectRequest
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
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create project", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Project created successfully", resp, nil)
}

func (c *Controller) GetProjects(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	projects, err := c.service.List(ctx.Request.Context(), identity)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch projects", nil, nil)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Projects retrieved successfully", projects, nil)
}

func (c *Controller) GetProject(ctx *gin.Context) {
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
		c.respondServiceError(ctx, err, "Failed to fetch project")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Project retrieved successfully", resp, nil)
}

func (c *Controller) UpdateProject(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	id, ok := c.pathUUID(ctx, "id")
	if !ok {
		return
	}

	var req ProjectRequest
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
		c.respondServiceError(ctx, err, "Failed to update project")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Project updated successfully", resp, nil)
}

func (c *Controller) DeleteProject(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	id, ok := c.pathUUID(ctx, "id")
	if !ok {
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), identity, id); err != nil {
		c.respondServiceError(ctx, err, "Failed to delete project")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Project deleted successfully", nil, nil)
}

func (c *Controller) AddMember(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	projectID, ok := c.pathUUID(ctx, "id")
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid user id", nil, nil)
		return
	}

	resp, err := c.service.AddMember(ctx.Request.Context(), identity, projectID, userID)
	if err != nil {
		c.respondServiceError(ctx, err, "Failed to add member")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Member added successfully", resp, nil)
}

func (c *Controller) RemoveMember(ctx *gin.Context) {
	identity, ok := auth.CurrentIdentity(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
		return
	}

	projectID, ok := c.pathUUID(ctx, "id")
	if !ok {
		return
	}
	userID, ok := c.pathUUID(ctx, "userId")
	if !ok {
		return
	}

	resp, err := c.service.RemoveMember(ctx.Request.Context(), identity, projectID, userID)
	if err != nil {
		c.respondServiceError(ctx, err, "Failed to remove member")
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Member removed successfully", resp, nil)
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
	case errors.Is(err, ErrProjectNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "Project not found", nil, nil)
	case errors.Is(err, ErrNotMember):
		response.RespondJSON(ctx, "error", http.StatusForbidden, "You are not a member of this project", nil, nil)
	case errors.Is(err, ErrMemberNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, "User not found", nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}
