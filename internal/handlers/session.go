package handlers

import (
	"net/http"

	"jielong/internal/middleware"
	"jielong/internal/services"
	"jielong/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// SessionHandler 把认证服务签发的令牌换成 cookie 会话，账号本身由外部服务管理
type SessionHandler struct {
	secret []byte
}

func NewSessionHandler(secret []byte) *SessionHandler {
	return &SessionHandler{secret: secret}
}

type sessionRequest struct {
	Token string `json:"token"`
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		badRequest(c, "缺少令牌")
		return
	}

	claims, err := utils.ParseToken(req.Token, h.secret)
	if err != nil {
		RespondError(c, services.ErrUnauthenticated)
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionKey, claims.Subject)
	if err := session.Save(); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": claims.Subject})
}

func (h *SessionHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
