package dto

import (
	"github.com/portfolio-admin/skills-backend/internal/models"
	"github.com/portfolio-admin/skills-backend/internal/ordering"
)

// CreateSkillRequest represents the request to create a skill
type CreateSkillRequest struct {
	Name     string            `json:"name" binding:"required"`
	Category string            `json:"category" binding:"required"`
	Level    models.SkillLevel `json:"level" binding:"required"`
}

// UpdateSkillRequest represents a partial skill update; omitted fields stay unchanged
type UpdateSkillRequest struct {
	Name     *string            `json:"name"`
	Category *string            `json:"category"`
	Level    *models.SkillLevel `json:"level"`
}

// MoveSkillRequest describes a single drag-and-drop drop: target category and zero-based position
type MoveSkillRequest struct {
	Category string `json:"category" binding:"required"`
	Index    *int   `json:"index" binding:"required"`
}

// ReorderSkillsRequest carries the full explicit order of one category
type ReorderSkillsRequest struct {
	Category string                  `json:"category" binding:"required"`
	Items    []ordering.ReorderEntry `json:"items" binding:"required"`
}
