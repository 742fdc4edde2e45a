package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/portfolio-admin/skills-backend/internal/dto"
	"github.com/portfolio-admin/skills-backend/internal/http/handlers/common"
	"github.com/portfolio-admin/skills-backend/internal/http/response"
	"github.com/portfolio-admin/skills-backend/internal/pkg/apperror"
	"github.com/portfolio-admin/skills-backend/internal/service"
)

// SkillHandler обслуживает маршруты навыков владельца.
type SkillHandler struct {
	skills *service.SkillService
}

// NewSkillHandler создаёт новый хэндлер.
func NewSkillHandler(skills *service.SkillService) *SkillHandler {
	return &SkillHandler{skills: skills}
}

// Board обрабатывает GET /skills.
func (h *SkillHandler) Board(c *gin.Context) {
	ownerID, err := common.CurrentOwnerID(c)
	if err != nil {
		h.fail(c, uuid.Nil, err)
		return
	}

	board, err := h.skills.Board(c.Request.Context(), ownerID)
	if err != nil {
		h.fail(c, uuid.Nil, err)
		return
	}

	response.Success(c, board)
}

// Categories обрабатывает GET /skills/categories.
func (h *SkillHandler) Categories(c *gin.Context) {
	ownerID, err := common.CurrentOwnerID(c)
	if err != nil {
		h.fail(c, uuid.Nil, err)
		return
	}

	categories, err := h.skills.Categories(c.Request.Context(), ownerID)
	if err != nil {
		h.fail(c, uuid.Nil, err)
		return
	}

	response.Success(c, dto.CategoriesResponse{Categories: categories})
}

// Create обрабатывает POST /skills.
func (h *SkillHandler) Create(c *gin.Context) {
	ownerID, err := common.CurrentOwnerID(c)
	if err != nil {
		h.fail(c, uuid.Nil, err)
		return
	}

	var req dto.CreateSkillRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		h.fail(c, uuid.Nil, err)
		return
	}

	skill, err := h.skills.Create(c.Request.Context(), ownerID, service.CreateSkillInput{
		Name:     req.Name,
		Category: req.Category,
		Level:    req.Level,
	})
	if err != nil {
		h.fail(c, ownerID, err)
		return
	}

	response.Created(c, skill)
}

// Get обрабатывает GET /skills/:id.
func (h *SkillHandler) Get(c *gin.Context) {
	ownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	skill, err := h.skills.Get(c.Request.Context(), ownerID, id)
	if err != nil {
		h.fail(c, uuid.Nil, err)
		return
	}

	response.Success(c, skill)
}

// Update обрабатывает PUT/PATCH /skills/:id.
// Смена категории переносит навык в конец новой категории.
func (h *SkillHandler) Update(c *gin.Context) {
	ownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	var req dto.UpdateSkillRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		h.fail(c, uuid.Nil, err)
		return
	}

	skill, err := h.skills.Update(c.Request.Context(), ownerID, id, service.UpdateSkillInput{
		Name:     req.Name,
		Category: req.Category,
		Level:    req.Level,
	})
	if err != nil {
		h.fail(c, ownerID, err)
		return
	}

	response.Success(c, skill)
}

// Move обрабатывает POST /skills/:id/move.
func (h *SkillHandler) Move(c *gin.Context) {
	ownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	var req dto.MoveSkillRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		h.fail(c, uuid.Nil, err)
		return
	}

	result, err := h.skills.Move(c.Request.Context(), ownerID, id, req.Category, *req.Index)
	if err != nil {
		h.fail(c, ownerID, err)
		return
	}

	response.Success(c, result)
}

// Reorder обрабатывает PUT /skills/reorder.
func (h *SkillHandler) Reorder(c *gin.Context) {
	ownerID, err := common.CurrentOwnerID(c)
	if err != nil {
		h.fail(c, uuid.Nil, err)
		return
	}

	var req dto.ReorderSkillsRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		h.fail(c, uuid.Nil, err)
		return
	}

	items, err := h.skills.Reorder(c.Request.Context(), ownerID, req.Category, req.Items)
	if err != nil {
		h.fail(c, ownerID, err)
		return
	}

	// Категория в ответе та, что сохранена после нормализации.
	category := req.Category
	if len(items) > 0 {
		category = items[0].Category
	}

	response.Success(c, dto.ReorderSkillsResponse{Category: category, Items: items})
}

// Delete обрабатывает DELETE /skills/:id.
func (h *SkillHandler) Delete(c *gin.Context) {
	ownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	if err := h.skills.Delete(c.Request.Context(), ownerID, id); err != nil {
		h.fail(c, ownerID, err)
		return
	}

	response.Success(c, dto.DeleteSkillResponse{ID: id})
}

func (h *SkillHandler) ownerAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ownerID, err := common.CurrentOwnerID(c)
	if err != nil {
		h.fail(c, uuid.Nil, err)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		h.fail(c, uuid.Nil, err)
		return uuid.Nil, uuid.Nil, false
	}

	return ownerID, id, true
}

// fail регистрирует ошибку для ErrorHandler и отвечает клиенту.
// Если хранилище недоступно при записи, к ответу прикладывается перечитанное состояние владельца.
func (h *SkillHandler) fail(c *gin.Context, ownerID uuid.UUID, err error) {
	_ = c.Error(err)

	if ownerID != uuid.Nil && apperror.IsUnavailable(err) {
		if board, boardErr := h.skills.Board(c.Request.Context(), ownerID); boardErr == nil {
			response.ErrorWithCurrent(c, err, board)
			return
		}
	}

	response.Error(c, err)
}
