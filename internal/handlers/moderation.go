package handlers

import (
	"net/http"

	"jielong/internal/services"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderation *services.ModerationService
}

func NewModerationHandler(moderation *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderation: moderation}
}

type checkRequest struct {
	Text string `json:"text"`
}

// Check 仅提示是否命中屏蔽词，不拦截
func (h *ModerationHandler) Check(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求格式错误")
		return
	}

	pattern, hit := h.moderation.CheckViolation(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, gin.H{"violation": hit, "pattern": pattern})
}
