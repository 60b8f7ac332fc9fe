package models

import (
	"fmt"
)

// AppError is a tagged application error. The Code is machine-readable and
// stable across releases; Status is the HTTP status the route layer should
// answer with, so no handler has to re-derive it from the message text.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors

// NewValidationError reports malformed or missing request input.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  400,
	}
}

// NewNotFoundError reports a missing entity using a per-entity code such as
// ARTICLE_NOT_FOUND or COMMENT_NOT_FOUND.
func NewNotFoundError(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  404,
	}
}

// NewConflictError reports a uniqueness or referential violation, e.g.
// SLUG_TAKEN or CATEGORY_HAS_ARTICLES.
func NewConflictError(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  400,
	}
}

// NewBadRequestError reports a domain rule violation that is neither a
// uniqueness conflict nor a schema problem, e.g. WEAK_PASSWORD or
// PARENT_MISMATCH.
func NewBadRequestError(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  400,
	}
}

// NewUnauthorizedError reports a missing or invalid credential.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  401,
	}
}

// NewForbiddenError reports an authenticated caller acting on a resource they
// do not own.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  403,
	}
}

// NewInternalError wraps an unclassified failure.
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Status:  500,
		Err:     err,
	}
}
