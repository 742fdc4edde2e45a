package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-admin/skills-backend/internal/db"
	"github.com/portfolio-admin/skills-backend/internal/models"
)

func newTestRepository(t *testing.T) *SkillRepository {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.RunMigrations(ctx, conn))
	return NewSkillRepository(conn)
}

func seedSkill(t *testing.T, repo *SkillRepository, owner uuid.UUID, name, category string) models.Skill {
	t.Helper()
	now := time.Now().UTC()
	skill := models.Skill{
		ID:        uuid.New(),
		OwnerID:   owner,
		Name:      name,
		Category:  category,
		Level:     models.SkillLevelIntermediate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), &skill))
	return skill
}

func names(skills []models.Skill) []string {
	out := make([]string, len(skills))
	for i, s := range skills {
		out[i] = s.Name
	}
	return out
}

func TestSkillRepository_CreateAppendsToCategory(t *testing.T) {
	repo := newTestRepository(t)
	owner := uuid.New()

	a := seedSkill(t, repo, owner, "Go", "Backend")
	b := seedSkill(t, repo, owner, "PostgreSQL", "Backend")
	c := seedSkill(t, repo, owner, "React", "Frontend")

	assert.Equal(t, 1, a.OrderIndex)
	assert.Equal(t, 2, b.OrderIndex)
	assert.Equal(t, 1, c.OrderIndex)

	list, err := repo.ListByCategory(context.Background(), owner, "Backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, names(list))
	assert.Equal(t, models.SkillLevelIntermediate, list[0].Level)
	assert.Equal(t, owner, list[0].OwnerID)
}

func TestSkillRepository_CreateDuplicateName(t *testing.T) {
	repo := newTestRepository(t)
	owner := uuid.New()
	seedSkill(t, repo, owner, "Go", "Backend")

	dup := models.Skill{ID: uuid.New(), OwnerID: owner, Name: "Go", Category: "Backend", Level: models.SkillLevelExpert}
	err := repo.Create(context.Background(), &dup)
	assert.ErrorIs(t, err, ErrSkillAlreadyExists)

	// другой регистр - другое имя
	other := models.Skill{ID: uuid.New(), OwnerID: owner, Name: "go", Category: "Backend", Level: models.SkillLevelExpert}
	assert.NoError(t, repo.Create(context.Background(), &other))

	// то же имя у другого владельца допустимо
	seedSkill(t, repo, uuid.New(), "Go", "Backend")
}

func TestSkillRepository_GetByIDScopedToOwner(t *testing.T) {
	repo := newTestRepository(t)
	owner := uuid.New()
	skill := seedSkill(t, repo, owner, "Docker", "DevOps")

	got, err := repo.GetByID(context.Background(), owner, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, "Docker", got.Name)
	assert.Equal(t, "DevOps", got.Category)

	_, err = repo.GetByID(context.Background(), uuid.New(), skill.ID)
	assert.ErrorIs(t, err, ErrSkillNotFound)

	_, err = repo.GetByID(context.Background(), owner, uuid.New())
	assert.ErrorIs(t, err, ErrSkillNotFound)
}

func TestSkillRepository_UpdateMovesWithNeighbours(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	owner := uuid.New()
	a := seedSkill(t, repo, owner, "A", "Frontend")
	b := seedSkill(t, repo, owner, "B", "Frontend")
	x := seedSkill(t, repo, owner, "X", "Backend")

	// A переезжает в Backend на первую позицию, B и X сдвигаются
	moved := a
	moved.Category = "Backend"
	moved.OrderIndex = 1
	moved.Name = "A2"
	moved.UpdatedAt = time.Now().UTC()
	changes := []models.SkillChange{
		{ID: a.ID, Category: "Backend", OrderIndex: 1},
		{ID: x.ID, Category: "Backend", OrderIndex: 2},
		{ID: b.ID, Category: "Frontend", OrderIndex: 1},
	}
	require.NoError(t, repo.Update(ctx, &moved, changes))

	backend, err := repo.ListByCategory(ctx, owner, "Backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"A2", "X"}, names(backend))

	frontend, err := repo.ListByCategory(ctx, owner, "Frontend")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, names(frontend))
	assert.Equal(t, 1, frontend[0].OrderIndex)
}

func TestSkillRepository_UpdateConflictRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	owner := uuid.New()
	a := seedSkill(t, repo, owner, "Go", "Frontend")
	b := seedSkill(t, repo, owner, "TypeScript", "Frontend")
	seedSkill(t, repo, owner, "Go", "Backend")

	moved := a
	moved.Category = "Backend"
	moved.OrderIndex = 2
	changes := []models.SkillChange{
		{ID: a.ID, Category: "Backend", OrderIndex: 2},
		{ID: b.ID, Category: "Frontend", OrderIndex: 1},
	}
	err := repo.Update(ctx, &moved, changes)
	assert.ErrorIs(t, err, ErrSkillAlreadyExists)

	frontend, err := repo.ListByCategory(ctx, owner, "Frontend")
	require.NoError(t, err)
	require.Len(t, frontend, 2)
	assert.Equal(t, 1, frontend[0].OrderIndex)
	assert.Equal(t, 2, frontend[1].OrderIndex)
}

func TestSkillRepository_DeleteRepacks(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	owner := uuid.New()
	a := seedSkill(t, repo, owner, "A", "Tools")
	b := seedSkill(t, repo, owner, "B", "Tools")
	c := seedSkill(t, repo, owner, "C", "Tools")

	err := repo.Delete(ctx, owner, a.ID, []models.SkillChange{
		{ID: c.ID, Category: "Tools", OrderIndex: 2},
		{ID: b.ID, Category: "Tools", OrderIndex: 1},
	})
	require.NoError(t, err)

	list, err := repo.ListByCategory(ctx, owner, "Tools")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, names(list))
	assert.Equal(t, 1, list[0].OrderIndex)
	assert.Equal(t, 2, list[1].OrderIndex)

	err = repo.Delete(ctx, owner, a.ID, nil)
	assert.ErrorIs(t, err, ErrSkillNotFound)
}

func TestSkillRepository_ApplyChangesIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	owner := uuid.New()
	a := seedSkill(t, repo, owner, "A", "Tools")
	seedSkill(t, repo, owner, "B", "Tools")

	err := repo.ApplyChanges(ctx, owner, []models.SkillChange{
		{ID: a.ID, Category: "Tools", OrderIndex: 2},
		{ID: uuid.New(), Category: "Tools", OrderIndex: 1},
	})
	assert.ErrorIs(t, err, ErrSkillNotFound)

	got, err := repo.GetByID(ctx, owner, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.OrderIndex)

	assert.NoError(t, repo.ApplyChanges(ctx, owner, nil))
}

func TestSkillRepository_ListCategoriesAndOwners(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	first, second := uuid.New(), uuid.New()
	seedSkill(t, repo, first, "Go", "Backend")
	seedSkill(t, repo, first, "Vue", "Frontend")
	seedSkill(t, repo, first, "Rust", "Backend")
	seedSkill(t, repo, second, "Figma", "Tools")

	categories, err := repo.ListCategories(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, []string{"Backend", "Frontend"}, categories)

	owners, err := repo.ListOwners(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{first, second}, owners)

	all, err := repo.ListByOwner(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Rust", "Vue"}, names(all))
}
