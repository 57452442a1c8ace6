package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus_SentinelMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrValidation},
		{http.StatusUnprocessableEntity, ErrValidation},
		{http.StatusConflict, ErrConflict},
		{http.StatusInternalServerError, ErrServer},
		{http.StatusBadGateway, ErrServer},
	}

	for _, tt := range tests {
		err := FromStatus(tt.status, "boom")
		assert.True(t, errors.Is(err, tt.want), "status %d should map to %v", tt.status, tt.want)
		assert.Equal(t, tt.status, err.Status)
		assert.Equal(t, "boom", err.Message)
	}
}

func TestFromStatus_EmptyMessageFallsBackToStatusText(t *testing.T) {
	err := FromStatus(http.StatusNotFound, "")
	assert.Equal(t, "Not Found", err.Message)
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	// Components wrap AppErrors with context; errors.Is must still match.
	inner := FromStatus(http.StatusUnauthorized, "token süresi dolmuş")
	wrapped := fmt.Errorf("session: resolving identity: %w", inner)

	assert.True(t, errors.Is(wrapped, ErrUnauthorized))

	var appErr *AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "token süresi dolmuş", appErr.Message)
}

func TestUnavailable(t *testing.T) {
	err := Unavailable(errors.New("dial tcp: connection refused"))
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, 0, err.Status)
}
