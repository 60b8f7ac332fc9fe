package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// TagService implements tag CRUD. Unlike categories, a tag may be deleted
// while in use; the article associations are simply dropped.
type TagService struct {
	tagRepo repository.TagRepository
}

// UpsertTagInput carries the fields of a tag create or update request.
type UpsertTagInput struct {
	Name string
	Slug string
}

// NewTagService creates a new tag service.
func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// GetAll returns every tag with its article count, name ascending.
func (s *TagService) GetAll(ctx context.Context) ([]*models.Tag, error) {
	return s.tagRepo.GetAll(ctx)
}

// GetBySlug returns the tag with the given slug.
func (s *TagService) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return s.tagRepo.GetBySlug(ctx, slug)
}

// GetByID returns the tag with the given id.
func (s *TagService) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	return s.tagRepo.GetByID(ctx, id)
}

// Create persists a new tag after name and slug uniqueness checks.
func (s *TagService) Create(ctx context.Context, in UpsertTagInput) (*models.Tag, error) {
	if err := s.checkUnique(ctx, in.Name, in.Slug, 0); err != nil {
		return nil, err
	}

	tag := &models.Tag{Name: in.Name, Slug: in.Slug}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Update renames the tag, re-validating uniqueness excluding itself.
func (s *TagService) Update(ctx context.Context, id uint, in UpsertTagInput) (*models.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := tag.Name
	if in.Name != "" {
		name = in.Name
	}
	slug := tag.Slug
	if in.Slug != "" {
		slug = in.Slug
	}
	if err := s.checkUnique(ctx, name, slug, tag.ID); err != nil {
		return nil, err
	}

	tag.Name = name
	tag.Slug = slug
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes the tag and detaches it from all articles.
func (s *TagService) Delete(ctx context.Context, id uint) error {
	if _, err := s.tagRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.tagRepo.Delete(ctx, id)
}

// Search returns tags matching the query in name or slug.
func (s *TagService) Search(ctx context.Context, query string) ([]*models.Tag, error) {
	return s.tagRepo.Search(ctx, query)
}

func (s *TagService) checkUnique(ctx context.Context, name, slug string, excludeID uint) error {
	taken, err := s.tagRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewConflictError("NAME_TAKEN", "Tag name already exists")
	}

	taken, err = s.tagRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return models.NewConflictError("SLUG_TAKEN", "Slug is already in use")
	}
	return nil
}
