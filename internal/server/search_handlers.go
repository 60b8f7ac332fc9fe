package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

const searchArticleLimit = 10

// Search handles GET /api/search?q=. An empty query is not an error; it
// returns empty result sets so the frontend can clear as the user types.
func (s *Server) Search(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return models.Respond(c, fiber.StatusOK, fiber.Map{
			"articles":   []*models.Article{},
			"tags":       []*models.Tag{},
			"categories": []*models.Category{},
		})
	}

	articles, err := s.articleService.Search(c.Context(), q, searchArticleLimit)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	tags, err := s.tagService.Search(c.Context(), q)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	categories, err := s.categoryService.Search(c.Context(), q)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"articles":   articles,
		"tags":       tags,
		"categories": categories,
	})
}
