package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]*models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, query string) ([]*models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.fillArticleCounts(ctx, categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("CATEGORY_NOT_FOUND", "Category not found")
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.fillArticleCounts(ctx, []*models.Category{&category}); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("CATEGORY_NOT_FOUND", "Category not found")
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.fillArticleCounts(ctx, []*models.Category{&category}); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	return r.exists(ctx, "name = ?", name, excludeID)
}

func (r *categoryRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return r.exists(ctx, "slug = ?", slug, excludeID)
}

func (r *categoryRepository) exists(ctx context.Context, cond string, value string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Category{}).Where(cond, value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Omit("Articles").Save(category).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Category{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) Search(ctx context.Context, query string) ([]*models.Category, error) {
	var categories []*models.Category
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("name LIKE ? OR slug LIKE ?", pattern, pattern).
		Find(&categories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

// fillArticleCounts populates the computed ArticleCount field with one grouped query.
func (r *categoryRepository) fillArticleCounts(ctx context.Context, categories []*models.Category) error {
	if len(categories) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}

	type row struct {
		CategoryID uint
		N          int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Select("category_id", "COUNT(*) AS n").
		Where("category_id IN ?", ids).
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return models.NewInternalError(err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.N
	}
	for _, c := range categories {
		c.ArticleCount = counts[c.ID]
	}
	return nil
}
