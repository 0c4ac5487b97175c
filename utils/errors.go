package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError is one entry of a validation failure, surfaced per field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// EntityError carries a structured per-field validation failure (422).
type EntityError struct {
	Errors []FieldError
}

func (e *EntityError) Error() string {
	if len(e.Errors) > 0 {
		return e.Errors[0].Message
	}
	return "validation error"
}

// NewEntityError builds a single-field EntityError.
func NewEntityError(field, message string) *EntityError {
	return &EntityError{Errors: []FieldError{{Field: field, Message: message}}}
}

// AuthError: missing/invalid/expired token or wrong-role access (401).
type AuthError struct{ Message string }

func (e *AuthError) Error() string { return e.Message }

func NewAuthError(message string) *AuthError { return &AuthError{Message: message} }

// ForbiddenError: feature administratively disabled (403).
type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

func NewForbiddenError(message string) *ForbiddenError { return &ForbiddenError{Message: message} }

// NotFoundError: referenced entity absent (404).
type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(message string) *NotFoundError { return &NotFoundError{Message: message} }

// ConflictError: unique-constraint violation, duplicate email or table
// number (409).
type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

func NewConflictError(message string) *ConflictError { return &ConflictError{Message: message} }

// DomainError: business-rule violation - unavailable dish, nothing to
// pay, hidden table (400).
type DomainError struct{ Message string }

func (e *DomainError) Error() string { return e.Message }

func NewDomainError(message string) *DomainError { return &DomainError{Message: message} }

// RespondWithError maps a typed error to its status code and the stable
// error envelope. Unexpected errors are logged and answered as a bare
// 500 so internals never leak.
func RespondWithError(c *gin.Context, err error) {
	var entityErr *EntityError
	var authErr *AuthError
	var forbiddenErr *ForbiddenError
	var notFoundErr *NotFoundError
	var conflictErr *ConflictError
	var domainErr *DomainError

	switch {
	case errors.As(err, &entityErr):
		c.JSON(http.StatusUnprocessableEntity, JSONResponse{
			Status:  false,
			Message: entityErr.Error(),
			Errors:  entityErr.Errors,
		})
	case errors.As(err, &authErr):
		RespondError(c, http.StatusUnauthorized, authErr)
	case errors.As(err, &forbiddenErr):
		RespondError(c, http.StatusForbidden, forbiddenErr)
	case errors.As(err, &notFoundErr):
		RespondError(c, http.StatusNotFound, notFoundErr)
	case errors.As(err, &conflictErr):
		RespondError(c, http.StatusConflict, conflictErr)
	case errors.As(err, &domainErr):
		RespondError(c, http.StatusBadRequest, domainErr)
	default:
		if ErrorLogger != nil {
			ErrorLogger.Printf("unexpected error: %v", err)
		}
		RespondError(c, http.StatusInternalServerError, errors.New("internal server error"))
	}
}
