package service

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// CommentService implements the guest comment flow and the moderation queue.
// Every new comment starts PENDING regardless of who submitted it, so there
// is exactly one moderation queue and no fast path around it.
type CommentService struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
}

// CreateCommentInput carries the fields of a guest comment submission.
type CreateCommentInput struct {
	Content     string
	Author      string
	Email       string
	ArticleSlug string
	ParentID    *uint
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, articleRepo repository.ArticleRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, articleRepo: articleRepo}
}

// GetByArticleSlug returns the approved comment thread for an article.
func (s *CommentService) GetByArticleSlug(ctx context.Context, slug string) ([]*models.Comment, error) {
	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.ListApprovedByArticle(ctx, article.ID)
}

// Create submits a guest comment. A reply must name an existing parent on
// the same article. The new comment is always held at PENDING.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	article, err := s.articleRepo.GetBySlug(ctx, in.ArticleSlug)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Status == 404 {
				return nil, models.NewNotFoundError("PARENT_NOT_FOUND", "Parent comment not found")
			}
			return nil, err
		}
		if parent.ArticleID != article.ID {
			return nil, models.NewBadRequestError("PARENT_MISMATCH", "Parent comment belongs to a different article")
		}
	}

	comment := &models.Comment{
		Content:   in.Content,
		Author:    in.Author,
		Email:     in.Email,
		ArticleID: article.ID,
		ParentID:  in.ParentID,
		Status:    models.CommentPending,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// UpdateStatus moves a comment to any of the three moderation states. No
// transition is restricted: a moderator may reverse an earlier decision.
func (s *CommentService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Comment, error) {
	if !models.ValidCommentStatus(status) {
		return nil, models.NewValidationError("Status must be PENDING, APPROVED, or SPAM")
	}

	if _, err := s.commentRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.commentRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, id)
}

// Delete removes a comment and all of its descendant replies.
func (s *CommentService) Delete(ctx context.Context, id uint) error {
	if _, err := s.commentRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, id)
}

// GetPending returns the moderation queue, newest first.
func (s *CommentService) GetPending(ctx context.Context) ([]*models.Comment, error) {
	return s.commentRepo.ListPending(ctx)
}

// GetAll returns a page over every comment regardless of status.
func (s *CommentService) GetAll(ctx context.Context, page, pageSize int) ([]*models.Comment, int64, error) {
	return s.commentRepo.ListAll(ctx, page, pageSize)
}
