package variables

import (
	"errors"
	"net/http"
)

// Domain errors for variable operations.
var (
	ErrNotFound  = errors.New("variable not found")
	ErrDuplicate = errors.New("variable already exists")
)

// MapHTTPStatus maps variable domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
