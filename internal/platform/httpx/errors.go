// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate entry")
	ErrValidation   = errors.New("validation failed")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream service unavailable")
)

// ValidationError carries per-field failures for a 422 response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return ErrValidation.Error() }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError from field:message pairs.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// RespondError maps domain errors to HTTP responses.
func RespondError(w http.ResponseWriter, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		Error(w, http.StatusUnprocessableEntity, "Validation failed", verr.Fields)
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusUnprocessableEntity, "Validation failed", nil)
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, ErrDuplicate):
		Error(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		Error(w, http.StatusForbidden, "This action is unauthorized.", nil)
	case errors.Is(err, ErrUnauthorized):
		Error(w, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, ErrUpstream):
		Error(w, http.StatusServiceUnavailable, "identity service unavailable", nil)
	default:
		Error(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}
