package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/portfolio-admin/skills-backend/internal/models"
	"github.com/portfolio-admin/skills-backend/internal/repository"
)

// memoryStore - хранилище навыков в памяти с атомарным применением изменений.
type memoryStore struct {
	mu     sync.Mutex
	skills map[uuid.UUID]models.Skill
	writes int
	// failWrites заставляет методы записи возвращать ошибку без изменений.
	failWrites error
	// failReads заставляет методы чтения возвращать ошибку.
	failReads error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{skills: make(map[uuid.UUID]models.Skill)}
}

// put кладёт запись как есть, в обход проверок.
func (m *memoryStore) put(skill models.Skill) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.skills[skill.ID] = skill
}

func (m *memoryStore) setFailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = err
}

func (m *memoryStore) setFailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failReads = err
}

func (m *memoryStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *memoryStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads != nil {
		return nil, m.failReads
	}
	return m.filter(func(s models.Skill) bool { return s.OwnerID == ownerID }), nil
}

func (m *memoryStore) ListByCategory(_ context.Context, ownerID uuid.UUID, category string) ([]models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads != nil {
		return nil, m.failReads
	}
	return m.filter(func(s models.Skill) bool { return s.OwnerID == ownerID && s.Category == category }), nil
}

func (m *memoryStore) ListCategories(_ context.Context, ownerID uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads != nil {
		return nil, m.failReads
	}
	seen := make(map[string]struct{})
	var out []string
	for _, s := range m.skills {
		if s.OwnerID != ownerID {
			continue
		}
		if _, ok := seen[s.Category]; !ok {
			seen[s.Category] = struct{}{}
			out = append(out, s.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *memoryStore) GetByID(_ context.Context, ownerID, id uuid.UUID) (*models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failReads != nil {
		return nil, m.failReads
	}
	s, ok := m.skills[id]
	if !ok || s.OwnerID != ownerID {
		return nil, repository.ErrSkillNotFound
	}
	return &s, nil
}

func (m *memoryStore) Create(_ context.Context, skill *models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	last := 0
	for _, s := range m.skills {
		if s.OwnerID != skill.OwnerID || s.Category != skill.Category {
			continue
		}
		if s.Name == skill.Name {
			return repository.ErrSkillAlreadyExists
		}
		if s.OrderIndex > last {
			last = s.OrderIndex
		}
	}
	skill.OrderIndex = last + 1
	m.skills[skill.ID] = *skill
	m.writes++
	return nil
}

func (m *memoryStore) Update(_ context.Context, skill *models.Skill, changes []models.SkillChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	next := m.snapshot()
	if cur, ok := next[skill.ID]; !ok || cur.OwnerID != skill.OwnerID {
		return repository.ErrSkillNotFound
	}
	next[skill.ID] = *skill
	if err := applyTo(next, skill.OwnerID, changes, skill.ID); err != nil {
		return err
	}
	return m.commit(next, 1+len(changes))
}

func (m *memoryStore) ApplyChanges(_ context.Context, ownerID uuid.UUID, changes []models.SkillChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	next := m.snapshot()
	if err := applyTo(next, ownerID, changes, uuid.Nil); err != nil {
		return err
	}
	return m.commit(next, len(changes))
}

func (m *memoryStore) Delete(_ context.Context, ownerID, id uuid.UUID, changes []models.SkillChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	next := m.snapshot()
	if cur, ok := next[id]; !ok || cur.OwnerID != ownerID {
		return repository.ErrSkillNotFound
	}
	delete(next, id)
	if err := applyTo(next, ownerID, changes, uuid.Nil); err != nil {
		return err
	}
	return m.commit(next, 1+len(changes))
}

func (m *memoryStore) filter(keep func(models.Skill) bool) []models.Skill {
	var out []models.Skill
	for _, s := range m.skills {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (m *memoryStore) snapshot() map[uuid.UUID]models.Skill {
	next := make(map[uuid.UUID]models.Skill, len(m.skills))
	for id, s := range m.skills {
		next[id] = s
	}
	return next
}

// commit проверяет уникальность имён и подменяет состояние целиком.
func (m *memoryStore) commit(next map[uuid.UUID]models.Skill, writes int) error {
	type key struct {
		owner          uuid.UUID
		category, name string
	}
	seen := make(map[key]struct{}, len(next))
	for _, s := range next {
		k := key{s.OwnerID, s.Category, s.Name}
		if _, dup := seen[k]; dup {
			return repository.ErrSkillAlreadyExists
		}
		seen[k] = struct{}{}
	}
	m.skills = next
	m.writes += writes
	return nil
}

func applyTo(next map[uuid.UUID]models.Skill, ownerID uuid.UUID, changes []models.SkillChange, skip uuid.UUID) error {
	for _, ch := range changes {
		if ch.ID == skip {
			continue
		}
		s, ok := next[ch.ID]
		if !ok || s.OwnerID != ownerID {
			return repository.ErrSkillNotFound
		}
		s.Category = ch.Category
		s.OrderIndex = ch.OrderIndex
		next[ch.ID] = s
	}
	return nil
}
