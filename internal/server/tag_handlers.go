package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.tagService.GetAll(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, tags)
}

// GetTag handles GET /api/tags/:slug
func (s *Server) GetTag(c *fiber.Ctx) error {
	tag, err := s.tagService.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, tag)
}

// CreateTag handles POST /api/tags
func (s *Server) CreateTag(c *fiber.Ctx) error {
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

	tag, err := s.tagService.Create(c.Context(), service.UpsertTagInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusCreated, tag)
}

// UpdateTag handles PUT /api/tags/:id
func (s *Server) UpdateTag(c *fiber.Ctx) error {
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

	tag, err := s.tagService.Update(c.Context(), id, service.UpsertTagInput{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, tag)
}

// DeleteTag handles DELETE /api/tags/:id
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tagService.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondMessage(c, fiber.StatusOK, "Tag deleted")
}
