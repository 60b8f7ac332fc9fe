package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListApprovedByArticle(ctx context.Context, articleID uint) ([]*models.Comment, error)
	ListPending(ctx context.Context) ([]*models.Comment, error)
	ListAll(ctx context.Context, page, pageSize int) ([]*models.Comment, int64, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("COMMENT_NOT_FOUND", "Comment not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

// ListApprovedByArticle returns the approved top-level comments with their
// approved direct replies. Replies nested deeper than one level are loaded
// without a status filter, matching the moderation UI's historical behavior.
func (r *commentRepository) ListApprovedByArticle(ctx context.Context, articleID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("article_id = ? AND parent_id IS NULL AND status = ?", articleID, models.CommentApproved).
		Preload("Replies", "status = ?", models.CommentApproved).
		Preload("Replies.Replies").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) ListPending(ctx context.Context) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("status = ?", models.CommentPending).
		Preload("Article", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "slug")
		}).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) ListAll(ctx context.Context, page, pageSize int) ([]*models.Comment, int64, error) {
	var comments []*models.Comment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	err := r.db.WithContext(ctx).
		Preload("Article", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "slug")
		}).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&comments).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return comments, total, nil
}

func (r *commentRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the comment and every descendant reply. The descendant set
// is collected level by level so the cascade does not depend on database
// foreign-key configuration.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uint{id}
		frontier := []uint{id}
		for len(frontier) > 0 {
			var children []uint
			err := tx.Model(&models.Comment{}).
				Where("parent_id IN ?", frontier).
				Pluck("id", &children).Error
			if err != nil {
				return err
			}
			ids = append(ids, children...)
			frontier = children
		}
		return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
