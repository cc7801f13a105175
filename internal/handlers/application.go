package handlers

import (
	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(db *gorm.DB, notifier *services.Notifier) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: services.NewApplicationService(db, notifier),
	}
}

// Submit files an application to a project
// POST /api/projects/:id/applications
func (h *ApplicationHandler) Submit(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	view, err := h.applicationService.Submit(middleware.GetUserID(c), projectID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, view)
}

// Decide accepts or rejects an application
// PUT /api/applications/:id/decision
func (h *ApplicationHandler) Decide(c *gin.Context) {
	applicationID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.DecideApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	view, err := h.applicationService.Decide(middleware.GetUserID(c), applicationID, req.Decision)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, view)
}

// ListForProject returns a project's applications
// GET /api/projects/:id/applications
func (h *ApplicationHandler) ListForProject(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	views, err := h.applicationService.ListForProject(middleware.GetUserID(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, views)
}

// ListMine returns the caller's applications
// GET /api/applications/my
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	views, err := h.applicationService.ListMine(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, views)
}
