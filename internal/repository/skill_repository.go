package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/portfolio-admin/skills-backend/internal/db"
	"github.com/portfolio-admin/skills-backend/internal/models"
	"github.com/portfolio-admin/skills-backend/internal/repository/common"
)

var (
	// ErrSkillNotFound возвращается, когда навык не найден у владельца.
	ErrSkillNotFound = errors.New("skill not found")
	// ErrSkillAlreadyExists возвращается при нарушении уникальности (owner, category, name).
	ErrSkillAlreadyExists = errors.New("skill already exists")
)

const skillColumns = `id, owner_id, name, category, level, order_index, created_at, updated_at`

// SkillRepository отвечает за хранение навыков и их позиций.
// Каждый метод записи выполняется в одной транзакции: план либо применяется целиком, либо не применяется.
type SkillRepository struct {
	db *sqlx.DB
}

// NewSkillRepository создаёт экземпляр репозитория.
func NewSkillRepository(db *sqlx.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// ListByOwner возвращает все навыки владельца, отсортированные по категории и позиции.
func (r *SkillRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Skill, error) {
	query := r.db.Rebind(`
		SELECT ` + skillColumns + `
		FROM skills
		WHERE owner_id = ?
		ORDER BY category, order_index, created_at, id
	`)

	var skills []models.Skill
	if err := r.db.SelectContext(ctx, &skills, query, ownerID); err != nil {
		return nil, fmt.Errorf("skill repository: list by owner %w", err)
	}
	return skills, nil
}

// ListByCategory возвращает навыки одной категории владельца в порядке отображения.
func (r *SkillRepository) ListByCategory(ctx context.Context, ownerID uuid.UUID, category string) ([]models.Skill, error) {
	query := r.db.Rebind(`
		SELECT ` + skillColumns + `
		FROM skills
		WHERE owner_id = ? AND category = ?
		ORDER BY order_index, created_at, id
	`)

	var skills []models.Skill
	if err := r.db.SelectContext(ctx, &skills, query, ownerID, category); err != nil {
		return nil, fmt.Errorf("skill repository: list by category %w", err)
	}
	return skills, nil
}

// ListCategories возвращает названия непустых категорий владельца.
func (r *SkillRepository) ListCategories(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	query := r.db.Rebind(`SELECT DISTINCT category FROM skills WHERE owner_id = ? ORDER BY category`)

	var categories []string
	if err := r.db.SelectContext(ctx, &categories, query, ownerID); err != nil {
		return nil, fmt.Errorf("skill repository: list categories %w", err)
	}
	return categories, nil
}

// ListOwners возвращает всех владельцев, у которых есть навыки.
func (r *SkillRepository) ListOwners(ctx context.Context) ([]uuid.UUID, error) {
	var owners []uuid.UUID
	if err := r.db.SelectContext(ctx, &owners, `SELECT DISTINCT owner_id FROM skills ORDER BY owner_id`); err != nil {
		return nil, fmt.Errorf("skill repository: list owners %w", err)
	}
	return owners, nil
}

// GetByID возвращает навык владельца по идентификатору.
func (r *SkillRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Skill, error) {
	query := r.db.Rebind(`
		SELECT ` + skillColumns + `
		FROM skills
		WHERE id = ? AND owner_id = ?
	`)

	var skill models.Skill
	if err := r.db.GetContext(ctx, &skill, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSkillNotFound
		}
		return nil, fmt.Errorf("skill repository: get by id %w", err)
	}
	return &skill, nil
}

// Create добавляет навык в конец его категории.
// Итоговая позиция записывается в skill.OrderIndex.
func (r *SkillRepository) Create(ctx context.Context, skill *models.Skill) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var last int
		maxQuery := tx.Rebind(`SELECT COALESCE(MAX(order_index), 0) FROM skills WHERE owner_id = ? AND category = ?`)
		if err := tx.GetContext(ctx, &last, maxQuery, skill.OwnerID, skill.Category); err != nil {
			return fmt.Errorf("skill repository: max order index %w", err)
		}

		skill.OrderIndex = last + 1
		insert := tx.Rebind(`
			INSERT INTO skills (` + skillColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if _, err := tx.ExecContext(
			ctx,
			insert,
			skill.ID,
			skill.OwnerID,
			skill.Name,
			skill.Category,
			string(skill.Level),
			skill.OrderIndex,
			skill.CreatedAt,
			skill.UpdatedAt,
		); err != nil {
			if db.IsUniqueViolation(err) {
				return ErrSkillAlreadyExists
			}
			return fmt.Errorf("skill repository: insert %w", err)
		}
		return nil
	})
	return err
}

// Update записывает итоговые поля навыка и сопутствующие сдвиги соседей.
// Строка самого навыка обновляется одним запросом (имя, уровень, категория и позиция вместе),
// поэтому навык в любой момент принадлежит ровно одной категории.
func (r *SkillRepository) Update(ctx context.Context, skill *models.Skill, changes []models.SkillChange) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`
			UPDATE skills
			SET name = ?, level = ?, category = ?, order_index = ?, updated_at = ?
			WHERE id = ? AND owner_id = ?
		`)
		res, err := tx.ExecContext(
			ctx,
			query,
			skill.Name,
			string(skill.Level),
			skill.Category,
			skill.OrderIndex,
			skill.UpdatedAt,
			skill.ID,
			skill.OwnerID,
		)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrSkillAlreadyExists
			}
			return fmt.Errorf("skill repository: update %w", err)
		}
		if err := common.ExpectAffected(res, ErrSkillNotFound); err != nil {
			return err
		}

		return applyChanges(ctx, tx, skill.OwnerID, without(changes, skill.ID), skill.UpdatedAt)
	})
}

// ApplyChanges записывает набор изменений позиций в одной транзакции.
func (r *SkillRepository) ApplyChanges(ctx context.Context, ownerID uuid.UUID, changes []models.SkillChange) error {
	if len(changes) == 0 {
		return nil
	}
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		return applyChanges(ctx, tx, ownerID, changes, time.Now().UTC())
	})
}

// Delete удаляет навык и уплотняет оставшиеся позиции категории.
func (r *SkillRepository) Delete(ctx context.Context, ownerID, id uuid.UUID, changes []models.SkillChange) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`DELETE FROM skills WHERE id = ? AND owner_id = ?`)
		res, err := tx.ExecContext(ctx, query, id, ownerID)
		if err != nil {
			return fmt.Errorf("skill repository: delete %w", err)
		}
		if err := common.ExpectAffected(res, ErrSkillNotFound); err != nil {
			return err
		}

		return applyChanges(ctx, tx, ownerID, changes, time.Now().UTC())
	})
}

// applyChanges обновляет category и order_index построчно.
// Пропавшая строка означает гонку с другим процессом: транзакция откатывается целиком.
func applyChanges(ctx context.Context, tx *sqlx.Tx, ownerID uuid.UUID, changes []models.SkillChange, now time.Time) error {
	if len(changes) == 0 {
		return nil
	}

	query := tx.Rebind(`
		UPDATE skills
		SET category = ?, order_index = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`)
	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("skill repository: prepare change %w", err)
	}
	defer stmt.Close()

	for _, ch := range changes {
		res, err := stmt.ExecContext(ctx, ch.Category, ch.OrderIndex, now, ch.ID, ownerID)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrSkillAlreadyExists
			}
			return fmt.Errorf("skill repository: apply change %s %w", ch.ID, err)
		}
		if err := common.ExpectAffected(res, ErrSkillNotFound); err != nil {
			return err
		}
	}
	return nil
}

func without(changes []models.SkillChange, id uuid.UUID) []models.SkillChange {
	out := make([]models.SkillChange, 0, len(changes))
	for _, ch := range changes {
		if ch.ID != id {
			out = append(out, ch)
		}
	}
	return out
}
