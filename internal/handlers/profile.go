package handlers

import (
	"net/http"

	"jielong/internal/middleware"
	"jielong/internal/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Show 用户公开资料
func (h *ProfileHandler) Show(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": profile.ID, "nickname": profile.Nickname, "role": profile.Role})
}

type nicknameRequest struct {
	Nickname string `json:"nickname"`
}

func (h *ProfileHandler) UpdateNickname(c *gin.Context) {
	var req nicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求格式错误")
		return
	}

	profile, err := h.profiles.UpdateNickname(c.Request.Context(), middleware.CurrentUserID(c), req.Nickname)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
