package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// ArticleService implements article CRUD with ownership enforcement.
type ArticleService struct {
	articleRepo  repository.ArticleRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
}

// CreateArticleInput carries the fields of an article create request.
// AuthorID always comes from the authenticated caller, never from the body.
type CreateArticleInput struct {
	Title      string
	Slug       string
	Content    string
	Excerpt    string
	CoverImage string
	Published  bool
	CategoryID uint
	TagIDs     []uint
	AuthorID   uint
}

// UpdateArticleInput is a patch: nil fields are left untouched.
type UpdateArticleInput struct {
	Title      *string
	Slug       *string
	Content    *string
	Excerpt    *string
	CoverImage *string
	Published  *bool
	CategoryID *uint
	TagIDs     *[]uint
}

// NewArticleService creates a new article service.
func NewArticleService(
	articleRepo repository.ArticleRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
) *ArticleService {
	return &ArticleService{
		articleRepo:  articleRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
	}
}

// List returns a page of articles, optionally filtered by published state.
func (s *ArticleService) List(ctx context.Context, page, pageSize int, published *bool) ([]*models.Article, int64, error) {
	return s.articleRepo.List(ctx, page, pageSize, published)
}

// GetBySlug returns the article with the given slug.
func (s *ArticleService) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return s.articleRepo.GetBySlug(ctx, slug)
}

// GetByID returns the article with the given id.
func (s *ArticleService) GetByID(ctx context.Context, id uint) (*models.Article, error) {
	return s.articleRepo.GetByID(ctx, id)
}

// Create validates slug uniqueness, category existence, and the full tag id
// set before persisting.
func (s *ArticleService) Create(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	taken, err := s.articleRepo.ExistsBySlug(ctx, in.Slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.NewConflictError("SLUG_TAKEN", "Slug is already in use")
	}

	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:      in.Title,
		Slug:       in.Slug,
		Content:    in.Content,
		Excerpt:    in.Excerpt,
		CoverImage: in.CoverImage,
		Published:  in.Published,
		CategoryID: in.CategoryID,
		AuthorID:   in.AuthorID,
		Tags:       tags,
	}
	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	return s.articleRepo.GetByID(ctx, article.ID)
}

// Update applies a patch after the ownership check. A changed slug is
// re-validated for uniqueness excluding the article itself, and a supplied
// tag set replaces the existing associations wholesale.
func (s *ArticleService) Update(ctx context.Context, id, userID uint, in UpdateArticleInput) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if article.AuthorID != userID {
		return nil, models.NewForbiddenError("You can only modify your own articles")
	}

	if in.Slug != nil && *in.Slug != article.Slug {
		taken, err := s.articleRepo.ExistsBySlug(ctx, *in.Slug, article.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewConflictError("SLUG_TAKEN", "Slug is already in use")
		}
	}

	if in.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	if in.Title != nil {
		article.Title = *in.Title
	}
	if in.Slug != nil {
		article.Slug = *in.Slug
	}
	if in.Content != nil {
		article.Content = *in.Content
	}
	if in.Excerpt != nil {
		article.Excerpt = *in.Excerpt
	}
	if in.CoverImage != nil {
		article.CoverImage = *in.CoverImage
	}
	if in.Published != nil {
		article.Published = *in.Published
	}
	if in.CategoryID != nil {
		article.CategoryID = *in.CategoryID
	}

	// Resolve the tag set before writing anything, so a bad tag list leaves
	// the article untouched.
	var tags []models.Tag
	if in.TagIDs != nil {
		resolved, err := s.resolveTags(ctx, *in.TagIDs)
		if err != nil {
			return nil, err
		}
		tags = resolved
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}

	if in.TagIDs != nil {
		if err := s.articleRepo.ReplaceTags(ctx, article, tags); err != nil {
			return nil, err
		}
	}

	return s.articleRepo.GetByID(ctx, article.ID)
}

// Delete removes the article after the ownership check. Comments and tag
// links go with it.
func (s *ArticleService) Delete(ctx context.Context, id, userID uint) error {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if article.AuthorID != userID {
		return models.NewForbiddenError("You can only delete your own articles")
	}

	return s.articleRepo.Delete(ctx, id)
}

// IncrementViews bumps the view counter. Callers treat this as best-effort
// telemetry and invoke it outside the request path.
func (s *ArticleService) IncrementViews(ctx context.Context, slug string) error {
	return s.articleRepo.IncrementViews(ctx, slug)
}

// Search returns published articles matching the query in title, content,
// or excerpt.
func (s *ArticleService) Search(ctx context.Context, query string, limit int) ([]*models.Article, error) {
	return s.articleRepo.Search(ctx, query, limit)
}

// resolveTags loads the tag set and fails if any id does not resolve.
func (s *ArticleService) resolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	tags, err := s.tagRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, models.NewBadRequestError("SOME_TAGS_NOT_FOUND", "Some tags do not exist")
	}
	return tags, nil
}
