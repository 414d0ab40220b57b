// Package apperr defines the error kinds shared by providers and handlers.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidInput marks a request the caller must fix.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a video or resource the provider does not know.
	ErrNotFound = errors.New("not found")
	// ErrProviderUnavailable marks a failed, throttled or unparseable upstream call.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrNotConfigured marks a feature whose credentials or backend are missing.
	ErrNotConfigured = errors.New("not configured")
)

// HTTPStatus maps an error to the response status the API returns for it.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrProviderUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
