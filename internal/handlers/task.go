package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Achintya-Chatterjee/task-management-api/internal/dto"
	apierrors "github.com/Achintya-Chatterjee/task-management-api/internal/errors"
	"github.com/Achintya-Chatterjee/task-management-api/internal/middleware"
	"github.com/Achintya-Chatterjee/task-management-api/internal/services"
	"github.com/Achintya-Chatterjee/task-management-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task HTTP handlers. Every route is behind
// RequireAuth; the owner id always comes from the request context.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns one page of the current user's tasks.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authorized")
		return
	}

	params := utils.GetPaginationParams(c)
	sort := utils.GetSortParams(c)

	tasks, total, err := h.taskService.List(services.ListTasksInput{
		OwnerID:    userID,
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		IsArchived: c.Query("isArchived") == "true",
		SortBy:     sort.SortBy,
		SortOrder:  sort.SortOrder,
		Page:       params.Page,
		PageSize:   params.Limit,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Tasks fetched successfully",
		"tasks":      dto.ToTaskDTOs(tasks),
		"pagination": dto.NewPagination(total, params.Page, params.Limit),
	})
}

// GetTask returns a single task owned by the current user.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authorized")
		return
	}

	task, err := h.taskService.Get(c.Param("id"), userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task fetched successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// CreateTask creates a new task owned by the current user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authorized")
		return
	}

	type createTaskRequest struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Status      string     `json:"status"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"dueDate"`
		Tags        []string   `json:"tags"`
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UpdateTask applies a partial update; omitted fields keep their values.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authorized")
		return
	}

	type updateTaskRequest struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Status      *string    `json:"status"`
		Priority    *string    `json:"priority"`
		DueDate     *time.Time `json:"dueDate"`
		Tags        []string   `json:"tags"`
		IsArchived  *bool      `json:"isArchived"`
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(c.Param("id"), userID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		IsArchived:  req.IsArchived,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// DeleteTask hard-deletes a task owned by the current user.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authorized")
		return
	}

	if err := h.taskService.Delete(c.Param("id"), userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func respondTaskError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, "Validation error", validationErr.Fields)
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotTaskOwner):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
