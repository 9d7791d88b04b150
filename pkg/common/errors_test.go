package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"not found", NewNotFoundError("expense not found"), http.StatusNotFound},
		{"bad request", NewBadRequestError("invalid id"), http.StatusBadRequest},
		{"upstream", NewUpstreamServiceError("model call failed", nil), http.StatusBadGateway},
		{"decode", NewDecodeError("bad payload", nil), http.StatusInternalServerError},
		{"persistence", NewPersistenceError("insert failed", nil), http.StatusInternalServerError},
		{"internal", NewInternalServerError("boom", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPersistenceError("insert failed", cause)

	assert.Equal(t, "insert failed: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewNotFoundError("trip not found")
	assert.Equal(t, "trip not found", bare.Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("gone")))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", NewNotFoundError("gone"))))
	assert.False(t, IsNotFound(NewBadRequestError("nope")))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}
