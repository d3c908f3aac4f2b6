package handlers

import (
	"net/http"
	"strconv"

	"jielong/internal/middleware"
	"jielong/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	moderation *services.ModerationService
	votes      *services.VoteService
}

func NewAdminHandler(moderation *services.ModerationService, votes *services.VoteService) *AdminHandler {
	return &AdminHandler{moderation: moderation, votes: votes}
}

// ListBlacklist 屏蔽词列表
func (h *AdminHandler) ListBlacklist(c *gin.Context) {
	entries, err := h.moderation.ListEntries(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type blacklistRequest struct {
	Pattern string `json:"pattern"`
	IsRegex bool   `json:"is_regex"`
}

// AddBlacklist 新增屏蔽词，写入后立即生效
func (h *AdminHandler) AddBlacklist(c *gin.Context) {
	var req blacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "请求格式错误")
		return
	}

	entry, err := h.moderation.AddEntry(c.Request.Context(), req.Pattern, req.IsRegex)
	if err != nil {
		RespondError(c, err)
		return
	}
	zap.L().Info("Blacklist changed by moderator", zap.String("moderator", middleware.CurrentUserID(c)), zap.Uint("id", entry.ID))
	c.JSON(http.StatusCreated, entry)
}

// DeleteBlacklist 删除屏蔽词
func (h *AdminHandler) DeleteBlacklist(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "无效的 ID")
		return
	}

	if err := h.moderation.DeleteEntry(c.Request.Context(), uint(id)); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reconcile 补救投票已过半但未完结的作品
func (h *AdminHandler) Reconcile(c *gin.Context) {
	ids, err := h.votes.Reconcile(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"completed": ids})
}
