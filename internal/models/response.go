package models

import (
	"errors"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// SafeMode controls production error shaping: when true, known error codes are
// mapped to generic client-facing text and details/stacks are never returned.
// It is set once at startup from the APP_ENV configuration.
var SafeMode bool

// safeMessages substitutes generic text for known codes when SafeMode is on.
var safeMessages = map[string]string{
	"ARTICLE_NOT_FOUND":  "Article not found",
	"CATEGORY_NOT_FOUND": "Category not found",
	"TAG_NOT_FOUND":      "Tag not found",
	"COMMENT_NOT_FOUND":  "Comment not found",
	"USER_NOT_FOUND":     "User not found",
	"UNAUTHORIZED":       "Unauthorized",
	"FORBIDDEN":          "Forbidden",
	"VALIDATION_ERROR":   "Request validation failed",
	"INTERNAL_ERROR":     "Internal server error",
}

// ErrorBody is the error half of the response envelope.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// Response is the uniform JSON envelope every endpoint answers with.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// Pagination describes the window of a paginated list response.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// Page nests list items with their pagination inside the envelope's data field.
type Page struct {
	Items      any        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// NewPage builds a Page for the given window.
func NewPage(items any, page, pageSize int, total int64) *Page {
	return &Page{
		Items:      items,
		Pagination: Pagination{Page: page, PageSize: pageSize, Total: total},
	}
}

// Respond writes a success envelope with the given status and payload.
func Respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Response{Success: true, Data: data})
}

// RespondMessage writes a success envelope carrying only a human message.
func RespondMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: true, Message: message})
}

// RespondWithError writes an error envelope. The HTTP status comes from the
// AppError kind; anything that is not an AppError is treated as an internal
// error. Every error is logged with a stack trace, but the stack is only
// echoed to the client outside SafeMode.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		// Fiber raises *fiber.Error for routing failures (unmatched path,
		// wrong method); keep its status instead of reporting a 500.
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			appErr = &AppError{
				Code:    strings.ReplaceAll(strings.ToUpper(utils.StatusMessage(fiberErr.Code)), " ", "_"),
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			}
		} else {
			appErr = NewInternalError(err)
		}
	}

	stack := string(debug.Stack())
	slog.Error("request error",
		slog.String("code", appErr.Code),
		slog.String("message", appErr.Message),
		slog.Int("status", appErr.Status),
		slog.String("path", c.Path()),
		slog.String("method", c.Method()),
		slog.String("stack", stack),
	)

	body := &ErrorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
	}
	if SafeMode {
		if msg, ok := safeMessages[appErr.Code]; ok {
			body.Message = msg
		}
	} else {
		if appErr.Err != nil {
			body.Details = appErr.Err.Error()
		}
		if appErr.Status >= 500 {
			body.Stack = stack
		}
	}

	return c.Status(appErr.Status).JSON(Response{Success: false, Error: body})
}
