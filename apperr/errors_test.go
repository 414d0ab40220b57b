package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid", fmt.Errorf("title: %w", ErrInvalidInput), http.StatusBadRequest},
		{"not found", fmt.Errorf("video abc: %w", ErrNotFound), http.StatusNotFound},
		{"provider", fmt.Errorf("%w: serper: %w", ErrProviderUnavailable, errors.New("EOF")), http.StatusBadGateway},
		{"not configured", fmt.Errorf("lens: %w", ErrNotConfigured), http.StatusServiceUnavailable},
		{"other", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
