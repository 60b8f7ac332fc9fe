package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	GetAll(ctx context.Context) ([]*models.Tag, error)
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, tag *models.Tag) error
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, query string) ([]*models.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) GetAll(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.fillArticleCounts(ctx, tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("TAG_NOT_FOUND", "Tag not found")
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.fillArticleCounts(ctx, []*models.Tag{&tag}); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("TAG_NOT_FOUND", "Tag not found")
		}
		return nil, models.NewInternalError(err)
	}
	if err := r.fillArticleCounts(ctx, []*models.Tag{&tag}); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *tagRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	return r.exists(ctx, "name = ?", name, excludeID)
}

func (r *tagRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	return r.exists(ctx, "slug = ?", slug, excludeID)
}

func (r *tagRepository) exists(ctx context.Context, cond string, value string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Tag{}).Where(cond, value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tagRepository) Update(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Omit("Articles").Save(tag).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete drops the tag and its article associations. Tags are optional
// metadata, so deletion never cascades to articles.
func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tag := models.Tag{ID: id}
		if err := tx.Model(&tag).Association("Articles").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *tagRepository) Search(ctx context.Context, query string) ([]*models.Tag, error) {
	var tags []*models.Tag
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("name LIKE ? OR slug LIKE ?", pattern, pattern).
		Find(&tags).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *tagRepository) fillArticleCounts(ctx context.Context, tags []*models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}

	type row struct {
		TagID uint
		N     int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("article_tags").
		Select("tag_id", "COUNT(*) AS n").
		Where("tag_id IN ?", ids).
		Group("tag_id").
		Scan(&rows).Error
	if err != nil {
		return models.NewInternalError(err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.TagID] = row.N
	}
	for _, t := range tags {
		t.ArticleCount = counts[t.ID]
	}
	return nil
}
