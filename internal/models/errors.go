package models

import (
	"errors"
	"net/http"
)

// Domain errors for model operations.
var (
	ErrNotFound    = errors.New("model not found")
	ErrDuplicate   = errors.New("model already registered")
	ErrNoContent   = errors.New("model has no archived content")
	ErrInvalidPath = errors.New("model path is required")
)

// MapHTTPStatus maps model domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNoContent) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
