package server

import (
	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Subscribe handles POST /api/subscribe
func (s *Server) Subscribe(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	if req.Email == "" {
		return models.RespondWithError(c, models.NewValidationError("Email is required"))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, models.NewValidationError(err.Error()))
	}

	sub, err := s.subscriptionService.Subscribe(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusCreated, sub)
}

// VerifyEmail handles GET /api/subscribe/verify?token=
func (s *Server) VerifyEmail(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return models.RespondWithError(c, models.NewValidationError("Token is required"))
	}

	sub, err := s.subscriptionService.VerifyEmail(c.Context(), token)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, sub)
}

// Unsubscribe handles DELETE /api/subscribe
func (s *Server) Unsubscribe(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	if req.Email == "" {
		return models.RespondWithError(c, models.NewValidationError("Email is required"))
	}

	if err := s.subscriptionService.Unsubscribe(c.Context(), req.Email); err != nil {
		return models.RespondWithError(c, err)
	}

	return models.RespondMessage(c, fiber.StatusOK, "Unsubscribed")
}

// GetSubscriptions handles GET /api/admin/subscriptions
func (s *Server) GetSubscriptions(c *fiber.Ctx) error {
	page, pageSize := parsePagination(c)

	subs, total, err := s.subscriptionService.GetAllSubscribers(c.Context(), page, pageSize)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, models.NewPage(subs, page, pageSize, total))
}
