package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/portfolio-admin/skills-backend/internal/http/handlers/common"
	"github.com/portfolio-admin/skills-backend/internal/http/response"
	"github.com/portfolio-admin/skills-backend/internal/pkg/apperror"
	"github.com/portfolio-admin/skills-backend/internal/service"
)

// PublicHandler отдаёт навыки для публичного сайта портфолио (только чтение).
type PublicHandler struct {
	skills  *service.SkillService
	ownerID uuid.UUID
}

// NewPublicHandler создаёт хэндлер. ownerID - владелец портфолио по умолчанию, может быть uuid.Nil.
func NewPublicHandler(skills *service.SkillService, ownerID uuid.UUID) *PublicHandler {
	return &PublicHandler{skills: skills, ownerID: ownerID}
}

// PortfolioBoard обрабатывает GET /public/skills.
func (h *PublicHandler) PortfolioBoard(c *gin.Context) {
	if h.ownerID == uuid.Nil {
		_ = c.Error(apperror.New(apperror.ErrCodeNotFound, "портфолио не настроено"))
		return
	}
	h.respondBoard(c, h.ownerID)
}

// UserBoard обрабатывает GET /public/users/:id/skills.
func (h *PublicHandler) UserBoard(c *gin.Context) {
	ownerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.respondBoard(c, ownerID)
}

func (h *PublicHandler) respondBoard(c *gin.Context, ownerID uuid.UUID) {
	board, err := h.skills.Board(c.Request.Context(), ownerID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, board)
}
