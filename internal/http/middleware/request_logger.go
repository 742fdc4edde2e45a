package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/portfolio-admin/skills-backend/internal/logger"
)

// RequestLogger пишет одну строку лога на запрос.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}
		if ownerID, ok := c.Get(ContextOwnerIDKey); ok {
			fields["owner_id"] = ownerID
		}

		entry := logger.Log.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
