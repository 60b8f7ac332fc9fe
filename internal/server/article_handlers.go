package server

import (
	"context"
	"log/slog"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

const articleCacheTTL = 5 * time.Minute

func articleCacheKey(slug string) string {
	return "article:slug:" + slug
}

// GetArticles handles GET /api/articles
func (s *Server) GetArticles(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c)

	// published is tri-state: absent means no filter.
	var published *bool
	if q := c.Query("published"); q != "" {
		v := q == "true"
		published = &v
	}

	articles, total, err := s.articleService.List(c.Context(), page, pageSize, published)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, models.NewPage(articles, page, pageSize, total))
}

// GetArticle handles GET /api/articles/:slug
func (s *Server) GetArticle(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var article models.Article
	err := cache.CacheAside(c.Context(), articleCacheKey(slug), &article, articleCacheTTL, func() error {
		found, err := s.articleService.GetBySlug(c.Context(), slug)
		if err != nil {
			return err
		}
		article = *found
		return nil
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	// Readers never wait on the view counter.
	go func() {
		if err := s.articleService.IncrementViews(context.Background(), slug); err != nil {
			slog.Error("failed to increment views",
				slog.String("slug", slug),
				slog.String("error", err.Error()),
			)
		}
	}()

	return models.Respond(c, fiber.StatusOK, article)
}

// GetArticleByID handles GET /api/articles/by-id/:id, used by the editor.
func (s *Server) GetArticleByID(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	article, err := s.articleService.GetByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, article)
}

// CreateArticle handles POST /api/articles
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req struct {
		Title      string `json:"title"`
		Slug       string `json:"slug"`
		Content    string `json:"content"`
		Excerpt    string `json:"excerpt"`
		CoverImage string `json:"coverImage"`
		Published  bool   `json:"published"`
		CategoryID uint   `json:"categoryId"`
		TagIDs     []uint `json:"tagIds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" || req.Slug == "" || req.Content == "" || req.CategoryID == 0 {
		return models.RespondWithError(c,
			models.NewValidationError("Title, slug, content, and categoryId are required"))
	}
	if err := validateSlugParam(req.Slug); err != nil {
		return models.RespondWithError(c, err)
	}

	article, err := s.articleService.Create(c.Context(), service.CreateArticleInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		CoverImage: req.CoverImage,
		Published:  req.Published,
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
		AuthorID:   currentUserID(c),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusCreated, article)
}

// UpdateArticle handles PUT /api/articles/:id
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title      *string `json:"title"`
		Slug       *string `json:"slug"`
		Content    *string `json:"content"`
		Excerpt    *string `json:"excerpt"`
		CoverImage *string `json:"coverImage"`
		Published  *bool   `json:"published"`
		CategoryID *uint   `json:"categoryId"`
		TagIDs     *[]uint `json:"tagIds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if req.Slug != nil {
		if err := validateSlugParam(*req.Slug); err != nil {
			return models.RespondWithError(c, err)
		}
	}

	// Remember the slug before the update so a rename invalidates both keys.
	oldSlug := ""
	if existing, gerr := s.articleRepo.GetByID(c.Context(), id); gerr == nil {
		oldSlug = existing.Slug
	}

	article, err := s.articleService.Update(c.Context(), id, currentUserID(c), service.UpdateArticleInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		CoverImage: req.CoverImage,
		Published:  req.Published,
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	keys := []string{articleCacheKey(article.Slug)}
	if oldSlug != "" && oldSlug != article.Slug {
		keys = append(keys, articleCacheKey(oldSlug))
	}
	cache.Delete(c.Context(), keys...)

	return models.Respond(c, fiber.StatusOK, article)
}

// DeleteArticle handles DELETE /api/articles/:id
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	slug := ""
	if existing, gerr := s.articleRepo.GetByID(c.Context(), id); gerr == nil {
		slug = existing.Slug
	}

	if err := s.articleService.Delete(c.Context(), id, currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}

	if slug != "" {
		cache.Delete(c.Context(), articleCacheKey(slug))
	}

	return models.RespondMessage(c, fiber.StatusOK, "Article deleted")
}
