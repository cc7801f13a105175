package handlers

import (
	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/services"
	"github.com/campushub/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RecommendHandler struct {
	recommendService *services.RecommendService
}

func NewRecommendHandler(db *gorm.DB) *RecommendHandler {
	return &RecommendHandler{
		recommendService: services.NewRecommendService(db),
	}
}

// List returns scored project suggestions for the caller
// GET /api/recommendations
func (h *RecommendHandler) List(c *gin.Context) {
	recs, err := h.recommendService.Recommend(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, recs)
}
