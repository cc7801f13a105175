package handlers

import (
	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MemberHandler struct {
	memberService *services.MemberService
}

func NewMemberHandler(db *gorm.DB, notifier *services.Notifier) *MemberHandler {
	return &MemberHandler{
		memberService: services.NewMemberService(db, notifier),
	}
}

// List returns a project's members
// GET /api/projects/:id/members
func (h *MemberHandler) List(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}

	views, err := h.memberService.List(middleware.GetUserID(c), middleware.GetRole(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, views)
}

// Remove deletes a membership
// DELETE /api/projects/:id/members/:studentId
func (h *MemberHandler) Remove(c *gin.Context) {
	projectID, ok := paramID(c, "id")
	if !ok {
		return
	}
	studentID, ok := paramID(c, "studentId")
	if !ok {
		return
	}

	if err := h.memberService.Remove(middleware.GetUserID(c), projectID, studentID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "member removed successfully"})
}
