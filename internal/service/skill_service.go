package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/portfolio-admin/skills-backend/internal/logger"
	"github.com/portfolio-admin/skills-backend/internal/models"
	"github.com/portfolio-admin/skills-backend/internal/ordering"
	"github.com/portfolio-admin/skills-backend/internal/pkg/apperror"
	"github.com/portfolio-admin/skills-backend/internal/repository"
	"github.com/portfolio-admin/skills-backend/internal/validation"
)

// SkillRepository описывает хранилище навыков.
// Каждый метод записи применяет переданные изменения атомарно.
type SkillRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Skill, error)
	ListByCategory(ctx context.Context, ownerID uuid.UUID, category string) ([]models.Skill, error)
	ListCategories(ctx context.Context, ownerID uuid.UUID) ([]string, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Skill, error)
	Create(ctx context.Context, skill *models.Skill) error
	Update(ctx context.Context, skill *models.Skill, changes []models.SkillChange) error
	ApplyChanges(ctx context.Context, ownerID uuid.UUID, changes []models.SkillChange) error
	Delete(ctx context.Context, ownerID, id uuid.UUID, changes []models.SkillChange) error
}

// CreateSkillInput - поля нового навыка.
type CreateSkillInput struct {
	Name     string
	Category string
	Level    models.SkillLevel
}

// UpdateSkillInput - частичное обновление навыка. nil означает "не менять".
type UpdateSkillInput struct {
	Name     *string
	Category *string
	Level    *models.SkillLevel
}

// MoveResult - итог перемещения навыка.
type MoveResult struct {
	Skill       models.Skill   `json:"skill"`
	Changed     bool           `json:"changed"`
	Source      []models.Skill `json:"source"`
	Destination []models.Skill `json:"destination"`
}

// SkillService управляет навыками и их порядком внутри категорий.
// Состояние между вызовами не хранится: каждая операция перечитывает хранилище.
type SkillService struct {
	repo  SkillRepository
	locks *categoryLocks
	now   func() time.Time
}

// NewSkillService создаёт сервис навыков.
func NewSkillService(repo SkillRepository) *SkillService {
	return &SkillService{
		repo:  repo,
		locks: newCategoryLocks(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Board возвращает навыки владельца, сгруппированные по категориям, со счётчиками.
func (s *SkillService) Board(ctx context.Context, ownerID uuid.UUID) (*models.SkillBoard, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.storeError(ownerID, "board", err)
	}
	return buildBoard(items), nil
}

// Get возвращает навык владельца.
func (s *SkillService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Skill, error) {
	skill, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, s.storeError(ownerID, "get", err)
	}
	return skill, nil
}

// Create добавляет навык в конец категории.
func (s *SkillService) Create(ctx context.Context, ownerID uuid.UUID, in CreateSkillInput) (*models.Skill, error) {
	name, err := validation.NormalizeSkillName(in.Name)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}
	category, err := validation.NormalizeCategory(in.Category)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidateSkillLevel(in.Level); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	unlock := s.locks.Lock(ownerID, category)
	defer unlock()

	siblings, err := s.repo.ListByCategory(ctx, ownerID, category)
	if err != nil {
		return nil, s.storeError(ownerID, "create", err)
	}
	if hasName(siblings, name, uuid.Nil) {
		return nil, apperror.ErrSkillAlreadyExists
	}

	now := s.now()
	skill := &models.Skill{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Category:  category,
		Level:     in.Level,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, skill); err != nil {
		return nil, s.storeError(ownerID, "create", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"owner_id":    ownerID,
		"skill_id":    skill.ID,
		"category":    skill.Category,
		"order_index": skill.OrderIndex,
	}).Debug("skill created")

	return skill, nil
}

// Update меняет название и уровень навыка. Смена категории обрабатывается как перенос в конец новой категории.
func (s *SkillService) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateSkillInput) (*models.Skill, error) {
	if in.Name == nil && in.Category == nil && in.Level == nil {
		return nil, apperror.Validation("нет полей для обновления")
	}

	var name, category string
	var err error
	if in.Name != nil {
		if name, err = validation.NormalizeSkillName(*in.Name); err != nil {
			return nil, apperror.Validation(err.Error())
		}
	}
	if in.Category != nil {
		if category, err = validation.NormalizeCategory(*in.Category); err != nil {
			return nil, apperror.Validation(err.Error())
		}
	}
	if in.Level != nil {
		if err := validation.ValidateSkillLevel(*in.Level); err != nil {
			return nil, apperror.Validation(err.Error())
		}
	}

	current, unlock, err := s.lockSkill(ctx, ownerID, id, category)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if category == "" {
		category = current.Category
	}
	if name == "" {
		name = current.Name
	}

	source, err := s.repo.ListByCategory(ctx, ownerID, current.Category)
	if err != nil {
		return nil, s.storeError(ownerID, "update", err)
	}
	destination := source
	if category != current.Category {
		if destination, err = s.repo.ListByCategory(ctx, ownerID, category); err != nil {
			return nil, s.storeError(ownerID, "update", err)
		}
	}
	if hasName(destination, name, id) {
		return nil, apperror.ErrSkillAlreadyExists
	}

	updated := *current
	var changes []models.SkillChange
	if category != current.Category {
		plan, err := ordering.PlanAppend(ordering.Sorted(source), ordering.Sorted(destination), id, category)
		if err != nil {
			return nil, planError(err)
		}
		updated = plan.Skill
		changes = plan.Changes
	}

	updated.Name = name
	if in.Level != nil {
		updated.Level = *in.Level
	}
	updated.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, &updated, changes); err != nil {
		return nil, s.storeError(ownerID, "update", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"skill_id": id,
		"category": updated.Category,
		"changes":  len(changes),
	}).Debug("skill updated")

	return &updated, nil
}

// Move переносит навык в категорию category на позицию index (с нуля).
// Позиция вне диапазона прижимается к ближайшей допустимой.
func (s *SkillService) Move(ctx context.Context, ownerID, id uuid.UUID, category string, index int) (*MoveResult, error) {
	category, err := validation.NormalizeCategory(category)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	current, unlock, err := s.lockSkill(ctx, ownerID, id, category)
	if err != nil {
		return nil, err
	}
	defer unlock()

	source, err := s.repo.ListByCategory(ctx, ownerID, current.Category)
	if err != nil {
		return nil, s.storeError(ownerID, "move", err)
	}
	source = ordering.Sorted(source)
	destination := source
	if category != current.Category {
		if destination, err = s.repo.ListByCategory(ctx, ownerID, category); err != nil {
			return nil, s.storeError(ownerID, "move", err)
		}
		destination = ordering.Sorted(destination)
		if hasName(destination, current.Name, id) {
			return nil, apperror.ErrSkillAlreadyExists
		}
	}

	plan, err := ordering.PlanMove(source, destination, id, category, index)
	if err != nil {
		return nil, planError(err)
	}

	result := &MoveResult{
		Skill:       plan.Skill,
		Source:      plan.Source,
		Destination: plan.Destination,
	}
	if plan.Empty() {
		return result, nil
	}

	moved := plan.Skill
	moved.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, &moved, plan.Changes); err != nil {
		return nil, s.storeError(ownerID, "move", err)
	}

	result.Skill = moved
	result.Changed = true

	logger.Log.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"skill_id": id,
		"from":     plan.FromCategory,
		"to":       moved.Category,
		"index":    plan.Index,
		"changes":  len(plan.Changes),
	}).Debug("skill moved")

	return result, nil
}

// Reorder сохраняет явный порядок категории. entries должны перечислять все навыки категории
// ровно один раз с позициями 1..N; записываются только изменившиеся строки.
func (s *SkillService) Reorder(ctx context.Context, ownerID uuid.UUID, category string, entries []ordering.ReorderEntry) ([]models.Skill, error) {
	category, err := validation.NormalizeCategory(category)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidateReorderSize(len(entries)); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	unlock := s.locks.Lock(ownerID, category)
	defer unlock()

	list, err := s.repo.ListByCategory(ctx, ownerID, category)
	if err != nil {
		return nil, s.storeError(ownerID, "reorder", err)
	}
	if len(list) == 0 {
		return nil, apperror.New(apperror.ErrCodeNotFound, "категория не найдена")
	}

	plan, err := ordering.PlanReorder(ordering.Sorted(list), category, entries)
	if err != nil {
		return nil, planError(err)
	}

	if !plan.Empty() {
		if err := s.repo.ApplyChanges(ctx, ownerID, plan.Changes); err != nil {
			return nil, s.storeError(ownerID, "reorder", err)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"category": category,
		"changes":  len(plan.Changes),
	}).Debug("category reordered")

	return plan.Source, nil
}

// Delete удаляет навык и уплотняет позиции оставшихся навыков категории.
func (s *SkillService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	current, unlock, err := s.lockSkill(ctx, ownerID, id, "")
	if err != nil {
		return err
	}
	defer unlock()

	list, err := s.repo.ListByCategory(ctx, ownerID, current.Category)
	if err != nil {
		return s.storeError(ownerID, "delete", err)
	}

	plan, err := ordering.PlanRemove(ordering.Sorted(list), id)
	if err != nil {
		return planError(err)
	}

	if err := s.repo.Delete(ctx, ownerID, id, plan.Changes); err != nil {
		return s.storeError(ownerID, "delete", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"skill_id": id,
		"category": current.Category,
		"changes":  len(plan.Changes),
	}).Debug("skill deleted")

	return nil
}

// Repack приводит позиции всех категорий владельца к 1..N по сохранённому порядку.
// Возвращает число переписанных строк.
func (s *SkillService) Repack(ctx context.Context, ownerID uuid.UUID) (int, error) {
	categories, err := s.repo.ListCategories(ctx, ownerID)
	if err != nil {
		return 0, s.storeError(ownerID, "repack", err)
	}
	if len(categories) == 0 {
		return 0, nil
	}

	unlock := s.locks.Lock(ownerID, categories...)
	defer unlock()

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return 0, s.storeError(ownerID, "repack", err)
	}

	groups := ordering.Group(items)
	var changes []models.SkillChange
	for _, category := range categories {
		_, patch := ordering.Renumber(groups[category], category)
		changes = append(changes, patch...)
	}

	if len(changes) > 0 {
		if err := s.repo.ApplyChanges(ctx, ownerID, changes); err != nil {
			return 0, s.storeError(ownerID, "repack", err)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"owner_id":   ownerID,
		"categories": len(categories),
		"changes":    len(changes),
	}).Info("skills repacked")

	return len(changes), nil
}

// Categories возвращает предлагаемые категории и уже используемые владельцем.
func (s *SkillService) Categories(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	existing, err := s.repo.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, s.storeError(ownerID, "categories", err)
	}

	out := make([]string, 0, len(models.SuggestedSkillCategories)+len(existing))
	seen := make(map[string]struct{}, cap(out))
	for _, category := range models.SuggestedSkillCategories {
		seen[category] = struct{}{}
		out = append(out, category)
	}

	extra := make([]string, 0, len(existing))
	for _, category := range existing {
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		extra = append(extra, category)
	}
	sort.Strings(extra)

	return append(out, extra...), nil
}

// lockSkill читает навык и захватывает блокировки его категории и категории extra.
// Если навык успел сменить категорию до захвата, попытка повторяется.
func (s *SkillService) lockSkill(ctx context.Context, ownerID, id uuid.UUID, extra string) (*models.Skill, func(), error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, apperror.Unavailable(fmt.Errorf("skill service: lock %s: %w", id, err))
		}

		skill, err := s.repo.GetByID(ctx, ownerID, id)
		if err != nil {
			return nil, nil, s.storeError(ownerID, "lock", err)
		}

		categories := []string{skill.Category}
		if extra != "" {
			categories = append(categories, extra)
		}
		unlock := s.locks.Lock(ownerID, categories...)

		locked, err := s.repo.GetByID(ctx, ownerID, id)
		if err != nil {
			unlock()
			return nil, nil, s.storeError(ownerID, "lock", err)
		}
		if locked.Category == skill.Category {
			return locked, unlock, nil
		}
		unlock()
	}
}

// storeError переводит ошибки хранилища в ошибки приложения.
func (s *SkillService) storeError(ownerID uuid.UUID, action string, err error) error {
	switch {
	case errors.Is(err, repository.ErrSkillNotFound):
		return apperror.ErrSkillNotFound
	case errors.Is(err, repository.ErrSkillAlreadyExists):
		return apperror.ErrSkillAlreadyExists
	}

	logger.Log.WithFields(logrus.Fields{
		"owner_id": ownerID,
		"action":   action,
	}).WithError(err).Warn("skill store call failed")

	return apperror.Unavailable(fmt.Errorf("skill service: %s: %w", action, err))
}

// planError переводит ошибки планировщика.
func planError(err error) error {
	switch {
	case errors.Is(err, ordering.ErrItemNotFound):
		return apperror.ErrSkillNotFound
	case errors.Is(err, ordering.ErrInvalidReorder):
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	default:
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось рассчитать порядок")
	}
}

func hasName(list []models.Skill, name string, except uuid.UUID) bool {
	for _, item := range list {
		if item.ID != except && item.Name == name {
			return true
		}
	}
	return false
}

func buildBoard(items []models.Skill) *models.SkillBoard {
	board := &models.SkillBoard{
		Categories: ordering.Group(items),
		Summary: models.SkillSummary{
			Total:      len(items),
			ByCategory: make(map[string]int),
			ByLevel:    make(map[models.SkillLevel]int, len(models.SkillLevels)),
		},
	}
	for _, level := range models.SkillLevels {
		board.Summary.ByLevel[level] = 0
	}
	for category, list := range board.Categories {
		board.Summary.ByCategory[category] = len(list)
		for _, item := range list {
			board.Summary.ByLevel[item.Level]++
		}
	}
	return board
}
