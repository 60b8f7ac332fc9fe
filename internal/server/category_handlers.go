package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.GetAll(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, categories)
}

// GetCategory handles GET /api/categories/:slug
func (s *Server) GetCategory(c *fiber.Ctx) error {
	category, err := s.categoryService.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, category)
}

// CreateCategory handles POST /api/categories
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	if req.Name == "" || req.Slug == "" {
		return models.RespondWithError(c, models.NewValidationError("Name and slug are required"))
	}
	if err := validateSlugParam(req.Slug); err != nil {
		return models.RespondWithError(c, err)
	}

	category, err := s.categoryService.Create(c.Context(), service.UpsertCategoryInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusCreated, category)
}

// UpdateCategory handles PUT /api/categories/:id
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if req.Slug != "" {
		if err := validateSlugParam(req.Slug); err != nil {
			return models.RespondWithError(c, err)
		}
	}

	category, err := s.categoryService.Update(c.Context(), id, service.UpsertCategoryInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, category)
}

// DeleteCategory handles DELETE /api/categories/:id
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondMessage(c, fiber.StatusOK, "Category deleted")
}
