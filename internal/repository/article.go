package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id uint) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error)
	List(ctx context.Context, page, pageSize int, published *bool) ([]*models.Article, int64, error)
	ListPublished(ctx context.Context, limit int) ([]*models.Article, error)
	ListPublishedSlugs(ctx context.Context) ([]models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	ReplaceTags(ctx context.Context, article *models.Article, tags []models.Tag) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, slug string) error
	Search(ctx context.Context, query string, limit int) ([]*models.Article, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	if err := r.db.WithContext(ctx).Create(article).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Preload("Author").
		First(&article, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("ARTICLE_NOT_FOUND", "Article not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &article, nil
}

func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Preload("Author").
		Where("slug = ?", slug).
		First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("ARTICLE_NOT_FOUND", "Article not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &article, nil
}

// ExistsBySlug reports whether another article already uses the slug.
// excludeID is ignored when zero.
func (r *articleRepository) ExistsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Article{}).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *articleRepository) List(ctx context.Context, page, pageSize int, published *bool) ([]*models.Article, int64, error) {
	var articles []*models.Article
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Article{})
	if published != nil {
		q = q.Where("published = ?", *published)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	err := q.
		Preload("Category").
		Preload("Tags").
		Preload("Author").
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&articles).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return articles, total, nil
}

func (r *articleRepository) ListPublished(ctx context.Context, limit int) ([]*models.Article, error) {
	var articles []*models.Article
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Preload("Author").
		Where("published = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

// ListPublishedSlugs returns slug and updated_at for every published article,
// enough for sitemap generation.
func (r *articleRepository) ListPublishedSlugs(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Select("slug", "updated_at").
		Where("published = ?", true).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	// Omit associations: tag links are replaced explicitly via ReplaceTags.
	err := r.db.WithContext(ctx).
		Omit("Tags", "Category", "Author", "Comments").
		Save(article).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ReplaceTags swaps the article's tag set wholesale (clear, then reconnect).
func (r *articleRepository) ReplaceTags(ctx context.Context, article *models.Article, tags []models.Tag) error {
	if err := r.db.WithContext(ctx).Model(article).Association("Tags").Replace(tags); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the article together with its comments and tag links.
func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		article := models.Article{ID: id}
		if err := tx.Model(&article).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Article{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// IncrementViews bumps the view counter atomically in the database.
func (r *articleRepository) IncrementViews(ctx context.Context, slug string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("slug = ?", slug).
		Update("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("ARTICLE_NOT_FOUND", "Article not found")
	}
	return nil
}

func (r *articleRepository) Search(ctx context.Context, query string, limit int) ([]*models.Article, error) {
	var articles []*models.Article
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Where("published = ?", true).
		Where("title LIKE ? OR content LIKE ? OR excerpt LIKE ?", pattern, pattern, pattern).
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return articles, nil
}

func (r *articleRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
