package handlers

import (
	"net/http"

	"jielong/internal/middleware"
	"jielong/internal/services"

	"github.com/gin-gonic/gin"
)

type ContributionHandler struct {
	contributions *services.ContributionService
}

func NewContributionHandler(contributions *services.ContributionService) *ContributionHandler {
	return &ContributionHandler{contributions: contributions}
}

type contributionRequest struct {
	Content string `json:"content"`
}

// Create 接龙：每人每个作品每天一条
func (h *ContributionHandler) Create(c *gin.Context) {
	var req contributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求格式错误")
		return
	}

	contribution, err := h.contributions.Submit(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), req.Content)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contribution)
}
