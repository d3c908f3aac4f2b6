package handlers

import (
	"net/http"

	"jielong/internal/middleware"
	"jielong/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	votes *services.VoteService
}

func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// Vote 投完结票。投票成功但完结失败时仍返回 200，并在 completion_error 中说明。
func (h *VoteHandler) Vote(c *gin.Context) {
	result, err := h.votes.Vote(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
