package handlers

import (
	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: services.NewDashboardService(db),
	}
}

// Faculty returns the owner's portfolio summary
// GET /api/dashboard/faculty
func (h *DashboardHandler) Faculty(c *gin.Context) {
	dash, err := h.dashboardService.Faculty(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dash)
}

// Student returns the student's activity summary
// GET /api/dashboard/student
func (h *DashboardHandler) Student(c *gin.Context) {
	dash, err := h.dashboardService.Student(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dash)
}
