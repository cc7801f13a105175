package handlers

import (
	"time"

	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(db *gorm.DB, notifier *services.Notifier) *TaskHandler {
	return &TaskHandler{
		taskService: services.NewTaskService(db, notifier),
	}
}

// Create adds a task to a project
// POST /api/projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			response.BadRequest(c, "due_date must be an RFC 3339 timestamp")
			return
		}
		task.DueDate = &due
	}

	view, err := h.taskService.Create(middleware.GetUserID(c), projectID, &task)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, view)
}

// Update edits a task
// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	view, err := h.taskService.Update(middleware.GetUserID(c), middleware.GetRole(c), taskID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, view)
}

// Delete removes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(middleware.GetUserID(c), taskID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "task deleted successfully"})
}

// ListForProject returns a project's tasks
// GET /api/projects/:id/tasks
func (h *TaskHandler) ListForProject(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	views, err := h.taskService.ListForProject(middleware.GetUserID(c), middleware.GetRole(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, views)
}
