package dto

import (
	"github.com/google/uuid"

	"github.com/portfolio-admin/skills-backend/internal/models"
)

// ReorderSkillsResponse returns the persisted order of the category
type ReorderSkillsResponse struct {
	Category string         `json:"category"`
	Items    []models.Skill `json:"items"`
}

// CategoriesResponse lists suggested and already used categories
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// DeleteSkillResponse confirms a deletion
type DeleteSkillResponse struct {
	ID uuid.UUID `json:"id"`
}
