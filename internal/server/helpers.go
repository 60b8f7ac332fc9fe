package server

import (
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// parsePagination extracts page and pageSize query parameters.
func parsePagination(c *fiber.Ctx) (page, pageSize int) {
	page = c.QueryInt("page", 1)
	if page <= 0 {
		page = 1
	}

	pageSize = c.QueryInt("pageSize", defaultPageSize)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return page, pageSize
}

// parseID extracts a route parameter as a positive uint. On failure it writes
// a 400 JSON response and returns errResponseWritten; callers should check:
// if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user id set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}

// validateSlugParam wraps slug format validation into an AppError.
func validateSlugParam(slug string) error {
	if err := validation.ValidateSlug(slug); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}
