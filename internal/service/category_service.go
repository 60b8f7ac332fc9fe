package service

import (
	"context"
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// CategoryService implements category CRUD. Deletion is refused while any
// article still references the category: every article must keep exactly one.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	articleRepo  repository.ArticleRepository
}

// UpsertCategoryInput carries the fields of a category create or update request.
type UpsertCategoryInput struct {
	Name string
	Slug string
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository, articleRepo repository.ArticleRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, articleRepo: articleRepo}
}

// GetAll returns every category with its article count, name ascending.
func (s *CategoryService) GetAll(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

// GetBySlug returns the category with the given slug.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(ctx, slug)
}

// GetByID returns the category with the given id.
func (s *CategoryService) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// Create persists a new category after name and slug uniqueness checks.
func (s *CategoryService) Create(ctx context.Context, in UpsertCategoryInput) (*models.Category, error) {
	if err := s.checkUnique(ctx, in.Name, in.Slug, 0); err != nil {
		return nil, err
	}

	category := &models.Category{Name: in.Name, Slug: in.Slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update renames the category, re-validating uniqueness excluding itself.
func (s *CategoryService) Update(ctx context.Context, id uint, in UpsertCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := category.Name
	if in.Name != "" {
		name = in.Name
	}
	slug := category.Slug
	if in.Slug != "" {
		slug = in.Slug
	}
	if err := s.checkUnique(ctx, name, slug, category.ID); err != nil {
		return nil, err
	}

	category.Name = name
	category.Slug = slug
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category, refusing while articles still reference it.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.articleRepo.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return models.NewConflictError("CATEGORY_HAS_ARTICLES",
			fmt.Sprintf("Category still has %d articles and cannot be deleted", count))
	}

	return s.categoryRepo.Delete(ctx, id)
}

// Search returns categories matching the query in name or slug.
func (s *CategoryService) Search(ctx context.Context, query string) ([]*models.Category, error) {
	return s.categoryRepo.Search(ctx, query)
}

func (s *CategoryService) checkUnique(ctx context.Context, name, slug string, excludeID uint) error {
	taken, err := s.categoryRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewConflictError("NAME_TAKEN", "Category name already exists")
	}

	taken, err = s.categoryRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewConflictError("SLUG_TAKEN", "Slug is already in use")
	}
	return nil
}
