package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/portfolio-admin/skills-backend/internal/http/response"
)

// ContextOwnerIDKey - ключ владельца портфолио в gin.Context.
const ContextOwnerIDKey = "ownerID"

// TokenParser проверяет access токен и возвращает идентификатор владельца.
type TokenParser interface {
	ParseAccess(token string) (uuid.UUID, error)
}

// AuthMiddleware проверяет JWT access токен.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, "требуется авторизация")
			c.Abort()
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		ownerID, err := tokens.ParseAccess(raw)
		if err != nil || ownerID == uuid.Nil {
			response.Unauthorized(c, "токен невалиден")
			c.Abort()
			return
		}

		c.Set(ContextOwnerIDKey, ownerID)
		c.Next()
	}
}
