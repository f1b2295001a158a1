package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"personnel-management/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesWrappedSentinel(t *testing.T) {
	sentinel := apperror.New("LEAVE_NOT_FOUND", "leave request not found", http.StatusNotFound)

	wrapped := apperror.WrapAs(errors.New("record not found"), sentinel)
	assert.ErrorIs(t, wrapped, sentinel)
	assert.ErrorIs(t, fmt.Errorf("decide: %w", wrapped), sentinel)

	other := apperror.New("LEAVE_NOT_FOUND", "something else", http.StatusNotFound)
	assert.False(t, errors.Is(wrapped, other))
}

func TestWrap_NilCause(t *testing.T) {
	assert.Nil(t, apperror.Wrap(nil, apperror.CodeInternalError, "x", http.StatusInternalServerError))
}

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		got := apperror.ToHTTP(fmt.Errorf("ctx: %w", apperror.ErrForbidden))
		assert.Equal(t, http.StatusForbidden, got.Status)
		assert.Equal(t, apperror.CodeForbidden, got.Code)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.NotContains(t, got.Message, "pq")
	})
}
