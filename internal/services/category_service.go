package services

import (
	"context"
	"fmt"
	"strings"

	"foodtruck/internal/common"
	"foodtruck/internal/models"
	"foodtruck/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, name string, imageURL *string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string, imageURL *string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type categoryService struct {
	store repositories.Store
}

func NewCategoryService(store repositories.Store) CategoryService {
	return &categoryService{store: store}
}

func validateCategory(name string, imageURL *string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", common.NewValidationError("name", "is required")
	}
	if len(name) > 100 {
		return "", common.NewValidationError("name", "cannot exceed 100 characters")
	}
	if err := common.ValidateOptionalString(imageURL, "image_url", 500); err != nil {
		return "", common.NewValidationError("image_url", err.Error())
	}
	return name, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, name string, imageURL *string) (*models.Category, error) {
	name, err := validateCategory(name, imageURL)
	if err != nil {
		return nil, err
	}

	category := &models.Category{ID: uuid.New(), Name: name, ImageURL: imageURL}
	if err := s.store.Repos().Categories.Create(ctx, category); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, common.ErrCategoryExists
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	log.Ctx(ctx).Info().Str("category_id", category.ID.String()).Str("name", name).Msg("category created")
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, name string, imageURL *string) (*models.Category, error) {
	name, err := validateCategory(name, imageURL)
	if err != nil {
		return nil, err
	}

	category, err := s.store.Repos().Categories.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, common.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("load category: %w", err)
	}

	category.Name = name
	category.ImageURL = imageURL
	if err := s.store.Repos().Categories.Update(ctx, category); err != nil {
		switch {
		case repositories.IsNotFound(err):
			return nil, common.ErrCategoryNotFound
		case repositories.IsUniqueViolation(err):
			return nil, common.ErrCategoryExists
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes the category; items lose the tag but are kept.
func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Repos().Categories.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return common.ErrCategoryNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	log.Ctx(ctx).Info().Str("category_id", id.String()).Msg("category deleted")
	return nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.store.Repos().Categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
