package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/articles/:slug/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.commentService.GetByArticleSlug(c.Context(), c.Params("slug"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, comments)
}

// CreateComment handles POST /api/articles/:slug/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content  string `json:"content"`
		Author   string `json:"author"`
		Email    string `json:"email"`
		ParentID *uint  `json:"parentId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	if req.Content == "" || req.Author == "" {
		return models.RespondWithError(c,
			models.NewValidationError("Content and author are required"))
	}
	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			return models.RespondWithError(c, models.NewValidationError(err.Error()))
		}
	}

	comment, err := s.commentService.Create(c.Context(), service.CreateCommentInput{
		Content:     req.Content,
		Author:      req.Author,
		Email:       req.Email,
		ArticleSlug: c.Params("slug"),
		ParentID:    req.ParentID,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusCreated, comment)
}

// GetAllComments handles GET /api/admin/comments
func (s *Server) GetAllComments(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c)

	comments, total, err := s.commentService.GetAll(c.Context(), page, pageSize)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, models.NewPage(comments, page, pageSize, total))
}

// GetPendingComments handles GET /api/admin/comments/pending
func (s *Server) GetPendingComments(c *fiber.Ctx) error {
	comments, err := s.commentService.GetPending(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, comments)
}

// UpdateCommentStatus handles PUT /api/admin/comments/:id
func (s *Server) UpdateCommentStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, comment)
}

// DeleteComment handles DELETE /api/admin/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondMessage(c, fiber.StatusOK, "Comment deleted")
}
