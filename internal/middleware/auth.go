package middleware

import (
	"context"
	"net/http"
	"strings"

	"jielong/internal/models"
	"jielong/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CheckUserKey = "user_id"
	RoleKey      = "user_role"
	SessionKey   = "user_id"
)

// RoleSource 查询用户角色，角色以本地资料为准
type RoleSource interface {
	Role(ctx context.Context, userID string) models.Role
}

// LoadUser 优先校验 Authorization 头中的 Bearer 令牌，其次读取 cookie 会话
func LoadUser(secret []byte, roles RoleSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := ""
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			claims, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil {
				zap.L().Debug("Rejected bearer token", zap.Error(err))
			} else {
				userID = claims.Subject
			}
		}
		if userID == "" {
			if id, ok := sessions.Default(c).Get(SessionKey).(string); ok {
				userID = id
			}
		}

		if userID != "" {
			c.Set(CheckUserKey, userID)
			c.Set(RoleKey, roles.Role(c.Request.Context(), userID))
		}
		c.Next()
	}
}

// CurrentUserID 未登录时返回空字符串
func CurrentUserID(c *gin.Context) string {
	return c.GetString(CheckUserKey)
}

func CurrentRole(c *gin.Context) models.Role {
	if r, ok := c.Get(RoleKey); ok {
		if role, ok := r.(models.Role); ok {
			return role
		}
	}
	return models.RoleUser
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "unauthenticated", "message": "请先登录"},
			})
			return
		}
		c.Next()
	}
}

// ModeratorRequired 仅 mod 与 admin 可访问
func ModeratorRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentRole(c).CanModerate() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "forbidden", "message": "需要管理员权限"},
			})
			return
		}
		c.Next()
	}
}
