// Package ordering рассчитывает позиции навыков внутри категорий.
//
// Все функции чистые: на вход подаётся текущее состояние категорий, прочитанное
// из хранилища, на выходе - итоговый порядок и минимальный набор изменений,
// которые нужно записать. Порядок внутри категории всегда 1..N без пропусков.
package ordering

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/portfolio-admin/skills-backend/internal/models"
)

var (
	// ErrItemNotFound возвращается, когда перемещаемый элемент отсутствует в исходной категории.
	ErrItemNotFound = errors.New("ordering: item not found")
	// ErrInvalidReorder возвращается, когда явный порядок не покрывает категорию целиком.
	ErrInvalidReorder = errors.New("ordering: invalid reorder")
)

// Plan - результат планирования одной операции.
type Plan struct {
	// Skill - перемещённый (или удалённый) элемент с итоговыми значениями.
	Skill models.Skill
	// Changes - записи, у которых изменились category или order_index.
	// Перемещённый элемент идёт первым, затем сдвинутые элементы от дальних к ближним.
	Changes []models.SkillChange
	// Source - итоговый порядок исходной категории.
	Source []models.Skill
	// Destination - итоговый порядок целевой категории (совпадает с Source при перестановке внутри категории).
	Destination []models.Skill
	// Index - фактически применённая позиция (после ограничения диапазоном), с нуля.
	Index int
	// FromCategory - категория элемента до операции.
	FromCategory string
}

// Empty сообщает, что план ничего не меняет.
func (p *Plan) Empty() bool {
	return len(p.Changes) == 0
}

// SameCategory сообщает, что элемент остался в своей категории.
func (p *Plan) SameCategory() bool {
	return p.FromCategory == p.Skill.Category
}

// ReorderEntry - желаемая позиция элемента при явной перестановке.
type ReorderEntry struct {
	ID         uuid.UUID `json:"id"`
	OrderIndex int       `json:"order_index"`
}

// Sort упорядочивает навыки по order_index. Дубликаты и пропуски допускаются:
// при равных индексах раньше идёт более старая запись, затем меньший id.
func Sort(items []models.Skill) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.OrderIndex != b.OrderIndex {
			return a.OrderIndex < b.OrderIndex
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

// Sorted возвращает отсортированную копию списка.
func Sorted(items []models.Skill) []models.Skill {
	out := clone(items)
	Sort(out)
	return out
}

// Group раскладывает навыки по категориям и сортирует каждую группу.
func Group(items []models.Skill) map[string][]models.Skill {
	groups := make(map[string][]models.Skill)
	for _, item := range items {
		groups[item.Category] = append(groups[item.Category], item)
	}
	for _, group := range groups {
		Sort(group)
	}
	return groups
}

// IndexOf возвращает позицию элемента в списке или -1.
func IndexOf(list []models.Skill, id uuid.UUID) int {
	for i, item := range list {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// IsContiguous проверяет, что индексы списка образуют ровно 1..N.
func IsContiguous(list []models.Skill) bool {
	seen := make([]bool, len(list)+1)
	for _, item := range list {
		if item.OrderIndex < 1 || item.OrderIndex > len(list) || seen[item.OrderIndex] {
			return false
		}
		seen[item.OrderIndex] = true
	}
	return true
}

// Renumber размещает список в категории на позициях 1..N и возвращает
// итоговый список вместе с изменениями для записей, которые действительно поменялись.
func Renumber(list []models.Skill, category string) ([]models.Skill, []models.SkillChange) {
	out := make([]models.Skill, len(list))
	var changes []models.SkillChange
	for i, item := range list {
		want := i + 1
		if item.OrderIndex != want || item.Category != category {
			item.OrderIndex = want
			item.Category = category
			changes = append(changes, changeOf(item))
		}
		out[i] = item
	}
	return out, changes
}

// PlanMove рассчитывает перемещение элемента id в категорию destCategory на позицию destIndex.
//
// source - текущий порядок категории элемента, destination - текущий порядок целевой
// категории (игнорируется, если категория не меняется). destIndex отсчитывается с нуля
// в итоговом списке и ограничивается допустимым диапазоном.
func PlanMove(source, destination []models.Skill, id uuid.UUID, destCategory string, destIndex int) (*Plan, error) {
	from := IndexOf(source, id)
	if from < 0 {
		return nil, ErrItemNotFound
	}
	moved := source[from]
	srcCategory := moved.Category

	if destCategory == srcCategory {
		to := clamp(destIndex, 0, len(source)-1)
		if to == from {
			current := clone(source)
			return &Plan{Skill: moved, Source: current, Destination: current, Index: to, FromCategory: srcCategory}, nil
		}

		reordered := insertAt(removeAt(source, from), to, moved)
		final, changes := Renumber(reordered, srcCategory)
		return &Plan{
			Skill:        final[to],
			Changes:      arrange(changes, id, to+1),
			Source:       final,
			Destination:  final,
			Index:        to,
			FromCategory: srcCategory,
		}, nil
	}

	if IndexOf(destination, id) >= 0 {
		return nil, fmt.Errorf("ordering: item %s already listed in %q", id, destCategory)
	}

	to := clamp(destIndex, 0, len(destination))
	finalDest, destChanges := Renumber(insertAt(destination, to, moved), destCategory)
	finalSrc, srcChanges := Renumber(removeAt(source, from), srcCategory)

	changes := arrange(destChanges, id, to+1)
	changes = append(changes, arrange(srcChanges, id, from+1)...)

	return &Plan{
		Skill:        finalDest[to],
		Changes:      changes,
		Source:       finalSrc,
		Destination:  finalDest,
		Index:        to,
		FromCategory: srcCategory,
	}, nil
}

// PlanAppend переносит элемент в конец категории destCategory.
// Используется при обычном редактировании поля category.
func PlanAppend(source, destination []models.Skill, id uuid.UUID, destCategory string) (*Plan, error) {
	return PlanMove(source, destination, id, destCategory, len(destination))
}

// PlanRemove рассчитывает удаление элемента и уплотнение оставшихся.
func PlanRemove(list []models.Skill, id uuid.UUID) (*Plan, error) {
	at := IndexOf(list, id)
	if at < 0 {
		return nil, ErrItemNotFound
	}
	removed := list[at]
	final, changes := Renumber(removeAt(list, at), removed.Category)
	return &Plan{
		Skill:        removed,
		Changes:      arrange(changes, uuid.Nil, at+1),
		Source:       final,
		Destination:  final,
		Index:        at,
		FromCategory: removed.Category,
	}, nil
}

// PlanReorder применяет явный порядок к категории целиком.
// Список должен упоминать каждый элемент категории ровно один раз, а индексы - образовывать 1..N.
func PlanReorder(list []models.Skill, category string, entries []ReorderEntry) (*Plan, error) {
	if len(entries) != len(list) {
		return nil, fmt.Errorf("%w: expected %d items, got %d", ErrInvalidReorder, len(list), len(entries))
	}

	byID := make(map[uuid.UUID]models.Skill, len(list))
	for _, item := range list {
		byID[item.ID] = item
	}

	ordered := make([]models.Skill, len(list))
	placed := make([]bool, len(list))
	seen := make(map[uuid.UUID]struct{}, len(entries))
	for _, entry := range entries {
		item, ok := byID[entry.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrItemNotFound, entry.ID)
		}
		if _, dup := seen[entry.ID]; dup {
			return nil, fmt.Errorf("%w: item %s listed twice", ErrInvalidReorder, entry.ID)
		}
		seen[entry.ID] = struct{}{}

		if entry.OrderIndex < 1 || entry.OrderIndex > len(list) {
			return nil, fmt.Errorf("%w: order_index %d out of range 1..%d", ErrInvalidReorder, entry.OrderIndex, len(list))
		}
		if placed[entry.OrderIndex-1] {
			return nil, fmt.Errorf("%w: order_index %d used twice", ErrInvalidReorder, entry.OrderIndex)
		}
		placed[entry.OrderIndex-1] = true
		ordered[entry.OrderIndex-1] = item
	}

	final, changes := Renumber(ordered, category)
	return &Plan{
		Changes:      changes,
		Source:       final,
		Destination:  final,
		FromCategory: category,
	}, nil
}

// arrange ставит перемещённый элемент первым, остальные изменения - от дальних к ближним относительно gap.
func arrange(changes []models.SkillChange, movedID uuid.UUID, gap int) []models.SkillChange {
	out := make([]models.SkillChange, 0, len(changes))
	rest := make([]models.SkillChange, 0, len(changes))
	for _, ch := range changes {
		if ch.ID == movedID {
			out = append(out, ch)
			continue
		}
		rest = append(rest, ch)
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return distance(rest[i].OrderIndex, gap) > distance(rest[j].OrderIndex, gap)
	})
	return append(out, rest...)
}

func changeOf(item models.Skill) models.SkillChange {
	return models.SkillChange{ID: item.ID, Category: item.Category, OrderIndex: item.OrderIndex}
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clone(list []models.Skill) []models.Skill {
	out := make([]models.Skill, len(list))
	copy(out, list)
	return out
}

func removeAt(list []models.Skill, i int) []models.Skill {
	out := make([]models.Skill, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...)
}

func insertAt(list []models.Skill, i int, item models.Skill) []models.Skill {
	out := make([]models.Skill, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, item)
	return append(out, list[i:]...)
}
