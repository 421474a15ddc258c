package services

import (
	"context"
	"testing"

	"foodtruck/internal/common"
	"foodtruck/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Create(t *testing.T) {
	repos, store := newRepoMocks()
	svc := NewCategoryService(store)
	ctx := context.Background()

	repos.categories.On("Create", ctx, mock.MatchedBy(func(c *models.Category) bool {
		return c.Name == "Tacos" && c.ID != uuid.Nil
	})).Return(nil)

	category, err := svc.CreateCategory(ctx, "  Tacos ", nil)

	require.NoError(t, err)
	assert.Equal(t, "Tacos", category.Name)
	repos.assertExpectations(t)
}

func TestCategoryService_CreateDuplicate(t *testing.T) {
	repos, store := newRepoMocks()
	svc := NewCategoryService(store)
	ctx := context.Background()

	repos.categories.On("Create", ctx, mock.AnythingOfType("*models.Category")).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "categories_name_key"})

	_, err := svc.CreateCategory(ctx, "Tacos", nil)
	assert.ErrorIs(t, err, common.ErrCategoryExists)
}

func TestCategoryService_CreateRequiresName(t *testing.T) {
	_, store := newRepoMocks()

	_, err := NewCategoryService(store).CreateCategory(context.Background(), "   ", nil)

	var vErr *common.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}

func TestCategoryService_Update(t *testing.T) {
	repos, store := newRepoMocks()
	svc := NewCategoryService(store)
	ctx := context.Background()
	id := uuid.New()
	image := "https://cdn.example.com/bowls.png"

	repos.categories.On("GetByID", ctx, id).Return(&models.Category{ID: id, Name: "Bowl"}, nil)
	repos.categories.On("Update", ctx, mock.MatchedBy(func(c *models.Category) bool {
		return c.Name == "Bowls" && c.ImageURL != nil && *c.ImageURL == image
	})).Return(nil)

	category, err := svc.UpdateCategory(ctx, id, "Bowls", &image)

	require.NoError(t, err)
	assert.Equal(t, "Bowls", category.Name)
	repos.assertExpectations(t)
}

func TestCategoryService_UpdateMissing(t *testing.T) {
	repos, store := newRepoMocks()
	ctx := context.Background()
	id := uuid.New()
	repos.categories.On("GetByID", ctx, id).Return(nil, pgx.ErrNoRows)

	_, err := NewCategoryService(store).UpdateCategory(ctx, id, "Bowls", nil)
	assert.ErrorIs(t, err, common.ErrCategoryNotFound)
}

func TestCategoryService_Delete(t *testing.T) {
	repos, store := newRepoMocks()
	svc := NewCategoryService(store)
	ctx := context.Background()
	id := uuid.New()

	repos.categories.On("Delete", ctx, id).Return(nil).Once()
	require.NoError(t, svc.DeleteCategory(ctx, id))

	repos.categories.On("Delete", ctx, id).Return(pgx.ErrNoRows).Once()
	assert.ErrorIs(t, svc.DeleteCategory(ctx, id), common.ErrCategoryNotFound)
}
