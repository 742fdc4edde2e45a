package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/portfolio-admin/skills-backend/internal/http/response"
	"github.com/portfolio-admin/skills-backend/internal/logger"
	"github.com/portfolio-admin/skills-backend/internal/pkg/apperror"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Ошибки приложения отдаются клиенту в едином формате, внутренние маскируются.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		code := apperror.CodeOf(err)

		entry := logger.Log.WithFields(logrus.Fields{
			"error":  err.Error(),
			"code":   code,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
		switch code {
		case apperror.ErrCodeInternal, apperror.ErrCodeUnavailable:
			entry.Error("Request error")
		default:
			entry.Debug("Request rejected")
		}

		// Ответ уже отправлен обработчиком
		if c.Writer.Written() {
			return
		}

		response.Error(c, err)
	}
}
