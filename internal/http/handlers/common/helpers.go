package common

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/portfolio-admin/skills-backend/internal/http/middleware"
	"github.com/portfolio-admin/skills-backend/internal/pkg/apperror"
)

var (
	// ErrOwnerNotFound is returned when owner id is missing in context
	ErrOwnerNotFound = errors.New("владелец не найден в контексте")

	// ErrInvalidUUID is returned when UUID parsing fails
	ErrInvalidUUID = errors.New("неверный формат UUID")
)

// CurrentOwnerID extracts the authenticated owner from Gin context
func CurrentOwnerID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(middleware.ContextOwnerIDKey)
	if !exists {
		return uuid.Nil, apperror.Wrap(ErrOwnerNotFound, apperror.ErrCodeUnauthorized, "требуется авторизация")
	}

	ownerID, ok := raw.(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		return uuid.Nil, apperror.Wrap(ErrOwnerNotFound, apperror.ErrCodeUnauthorized, "требуется авторизация")
	}

	return ownerID, nil
}

// ParseUUIDParam parses UUID from URL parameter
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, apperror.Validation(fmt.Sprintf("параметр %s отсутствует", paramName))
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, apperror.Wrap(ErrInvalidUUID, apperror.ErrCodeValidation, ErrInvalidUUID.Error())
	}

	return parsed, nil
}

// BindAndValidate binds JSON request and returns a validation error
func BindAndValidate(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, fmt.Sprintf("ошибка валидации запроса: %v", err))
	}
	return nil
}
