package models

import (
	"time"

	"github.com/google/uuid"
)

// Skill описывает навык владельца портфолио.
// Позиция навыка задаётся парой (Category, OrderIndex), OrderIndex начинается с 1.
type Skill struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	OwnerID    uuid.UUID  `db:"owner_id" json:"owner_id"`
	Name       string     `db:"name" json:"name"`
	Category   string     `db:"category" json:"category"`
	Level      SkillLevel `db:"level" json:"level"`
	OrderIndex int        `db:"order_index" json:"order_index"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// SkillChange - точечное изменение позиции одной записи.
type SkillChange struct {
	ID         uuid.UUID `json:"id"`
	Category   string    `json:"category"`
	OrderIndex int       `json:"order_index"`
}

// SkillSummary содержит счётчики для сгруппированного представления.
type SkillSummary struct {
	Total      int                `json:"total"`
	ByCategory map[string]int     `json:"by_category"`
	ByLevel    map[SkillLevel]int `json:"by_level"`
}

// SkillBoard - навыки владельца, сгруппированные по категориям.
type SkillBoard struct {
	Categories map[string][]Skill `json:"categories"`
	Summary    SkillSummary       `json:"summary"`
}
