package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/hnakamura/task-tracker-api/internal/dto"
	apierrors "github.com/hnakamura/task-tracker-api/internal/errors"
	"github.com/hnakamura/task-tracker-api/internal/middleware"
	"github.com/hnakamura/task-tracker-api/internal/models"
	"github.com/hnakamura/task-tracker-api/internal/services"
	"github.com/hnakamura/task-tracker-api/internal/types"
	"github.com/hnakamura/task-tracker-api/internal/utils"
)

// TaskHandler coordinates task, dashboard, and user-directory handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the actor's visible tasks, filtered and paginated.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthenticated(c)
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListTasks(actor, services.ListTasksInput{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
		Page:     params.Page,
		PerPage:  params.PerPage,
	})
	if err != nil {
		apierrors.Internal(c)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskCollection(tasks, params.Page, params.PerPage, total))
}

// GetTask returns a single task the actor may read.
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthenticated(c)
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(actor, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResource(*task))
}

// CreateTask creates a task owned by the actor.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthenticated(c)
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title" binding:"required,max=255"`
		Description string              `json:"description"`
		Status      models.TaskStatus   `json:"status" binding:"omitempty,oneof=pending in_progress completed"`
		Priority    models.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high"`
		Deadline    *types.Date         `json:"deadline"`
		AssignedTo  *uint64             `json:"assigned_to"`
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.CreateTask(actor, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Deadline:    req.Deadline,
		AssignedTo:  req.AssignedTo,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResource(*task))
}

// UpdateTask patches a task. Undefined fields in the body are ignored; an
// explicit null clears nullable fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthenticated(c)
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		Title       *string              `json:"title" binding:"omitnil,min=1,max=255"`
		Description *string              `json:"description"`
		Status      *models.TaskStatus   `json:"status" binding:"omitnil,oneof=pending in_progress completed"`
		Priority    *models.TaskPriority `json:"priority" binding:"omitnil,oneof=low medium high"`
		Deadline    *types.Date          `json:"deadline"`
		AssignedTo  *uint64              `json:"assigned_to"`
	}

	var req UpdateTaskRequest
	if !bindJSONBody(c, &req) {
		return
	}

	// The raw body distinguishes "field: null" from an absent field
	var raw map[string]any
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:      req.Title,
		Status:     req.Status,
		Priority:   req.Priority,
		Deadline:   req.Deadline,
		AssignedTo: req.AssignedTo,
	}
	if _, present := raw["deadline"]; present && req.Deadline == nil {
		input.ClearDeadline = true
	}
	if _, present := raw["assigned_to"]; present && req.AssignedTo == nil {
		input.ClearAssignee = true
	}
	if _, present := raw["description"]; present {
		if req.Description != nil {
			input.Description = req.Description
		} else {
			empty := ""
			input.Description = &empty
		}
	}

	task, err := h.taskService.UpdateTask(actor, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResource(*task))
}

// DeleteTask removes a task. Owner-only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthenticated(c)
		return
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(actor, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// Dashboard returns the per-status aggregate and the five most recent tasks.
func (h *TaskHandler) Dashboard(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthenticated(c)
		return
	}

	stats, recent, err := h.taskService.Dashboard(actor)
	if err != nil {
		apierrors.Internal(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":        stats,
		"recent_tasks": dto.ToTaskResources(recent),
	})
}

// ListUsers returns every user except the actor, for the assignee picker.
func (h *TaskHandler) ListUsers(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthenticated(c)
		return
	}

	users, err := h.taskService.AssignableUsers(actor)
	if err != nil {
		apierrors.Internal(c)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserSummaries(users))
}

// taskIDParam parses the route id. A non-numeric id behaves like a missing
// task.
func taskIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.NotFound(c)
		return 0, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c)
	case errors.Is(err, services.ErrTaskForbidden):
		apierrors.Forbidden(c)
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.ValidationField(c, "assigned_to", "The selected assigned to is invalid.")
	default:
		apierrors.Internal(c)
	}
}
