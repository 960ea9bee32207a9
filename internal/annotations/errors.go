package annotations

import (
	"errors"
	"net/http"
)

// Domain errors for annotation operations.
var (
	ErrNotFound    = errors.New("annotation not found")
	ErrDuplicate   = errors.New("annotation already exists")
	ErrNoVariables = errors.New("model has no extracted variables")
)

// MapHTTPStatus maps annotation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrNoVariables) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
