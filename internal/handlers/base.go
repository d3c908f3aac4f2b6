package handlers

import (
	"errors"
	"net/http"

	"jielong/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// statusFor 业务码到 HTTP 状态码的唯一映射
func statusFor(code services.Code) int {
	switch code {
	case services.CodeUnauthenticated:
		return http.StatusUnauthorized
	case services.CodeValidationFailed:
		return http.StatusBadRequest
	case services.CodeForbiddenContent:
		return http.StatusUnprocessableEntity
	case services.CodeDailyLimitExceeded:
		return http.StatusTooManyRequests
	case services.CodeAlreadyVoted, services.CodeDuplicateSubmission, services.CodeWorkFinished:
		return http.StatusConflict
	case services.CodeMustContributeFirst, services.CodeForbidden:
		return http.StatusForbidden
	case services.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondError 以 {"error": {...}} 返回业务错误
func RespondError(c *gin.Context, err error) {
	var e *services.Error
	if !errors.As(err, &e) {
		e = services.TranslateStoreError(err)
	}
	status := statusFor(e.Code)
	if status >= http.StatusInternalServerError {
		zap.L().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": e})
}

// badRequest 请求体无法解析
func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error": gin.H{"code": services.CodeValidationFailed, "message": message},
	})
}
