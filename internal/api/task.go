package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/taskhub/internal/models"
	"github.com/lalith-99/taskhub/internal/repository"
	"go.uber.org/zap"
)

// TaskHandler serves the /todos endpoints. It owns request-shape translation
// and enum parsing; everything relational lives behind the repository.
type TaskHandler struct {
	repo   repository.TaskRepository
	logger *zap.Logger
}

func NewTaskHandler(repo repository.TaskRepository, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{repo: repo, logger: logger}
}

type createTaskRequest struct {
	Title       string      `json:"title" binding:"required"`
	Description *string     `json:"description"`
	Status      *string     `json:"status"`
	Priority    *string     `json:"priority"`
	DueAt       *time.Time  `json:"due_at"`
	CreatedBy   uuid.UUID   `json:"created_by" binding:"required"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
}

// patchTaskRequest is all pointers so "absent" survives JSON decoding.
// For the id sets the pointer-to-slice distinction carries the three-way
// contract: nil = no change, &[] = clear, &[...] = replace.
type patchTaskRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Status      *string      `json:"status"`
	Priority    *string      `json:"priority"`
	DueAt       *time.Time   `json:"due_at"`
	AssigneeIDs *[]uuid.UUID `json:"assignee_ids"`
	TagIDs      *[]uuid.UUID `json:"tag_ids"`
}

// List handles GET /todos/?status=&assignee_id=&tag_id=
func (h *TaskHandler) List(c *gin.Context) {
	var filter models.TaskFilter

	if s := c.Query("status"); s != "" {
		status, err := models.ParseTaskStatus(s)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		filter.Status = &status
	}
	if v := c.Query("assignee_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid assignee_id")
			return
		}
		filter.AssigneeID = &id
	}
	if v := c.Query("tag_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid tag_id")
			return
		}
		filter.TagID = &id
	}

	tasks, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list tasks", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetByID handles GET /todos/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task id")
		return
	}

	task, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to get task", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to get task")
		return
	}
	if task == nil {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}
	c.JSON(http.StatusOK, task)
}

// Create handles POST /todos/
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	status := models.StatusTodo
	if req.Status != nil && *req.Status != "" {
		parsed, err := models.ParseTaskStatus(*req.Status)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid status or priority")
			return
		}
		status = parsed
	}
	priority := models.PriorityNormal
	if req.Priority != nil && *req.Priority != "" {
		parsed, err := models.ParseTaskPriority(*req.Priority)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid status or priority")
			return
		}
		priority = parsed
	}

	task, err := h.repo.Create(c.Request.Context(), models.TaskCreate{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueAt:       req.DueAt,
		CreatedBy:   req.CreatedBy,
		AssigneeIDs: req.AssigneeIDs,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUnknownAssignee) || errors.Is(err, repository.ErrUnknownTag) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create task", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to create task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// Patch handles PATCH /todos/:id
func (h *TaskHandler) Patch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req patchTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	patch := models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		AssigneeIDs: req.AssigneeIDs,
		TagIDs:      req.TagIDs,
	}
	if req.Status != nil {
		status, err := models.ParseTaskStatus(*req.Status)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid status")
			return
		}
		patch.Status = &status
	}
	if req.Priority != nil {
		priority, err := models.ParseTaskPriority(*req.Priority)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid priority")
			return
		}
		patch.Priority = &priority
	}

	task, err := h.repo.Patch(c.Request.Context(), id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrUnknownAssignee) || errors.Is(err, repository.ErrUnknownTag) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to patch task", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to patch task")
		return
	}
	if task == nil {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /todos/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid task id")
		return
	}

	deleted, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete task", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to delete task")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "Task not found")
		return
	}
	c.Status(http.StatusNoContent)
}
