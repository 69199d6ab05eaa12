package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("vocab item %d not found", 42)

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrConflict))

	wrapped := fmt.Errorf("update: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
}

func TestCode_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, CodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, CodeConflict.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, CodeInvalidRequest.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CodeStorage.HTTPStatus())
}

func TestStorage_UnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("disk I/O error")
	err := Storage(cause, "insert vocab item")

	assert.Equal(t, "insert vocab item: disk I/O error", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeStorage, CodeOf(err))
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, CodeStorage, CodeOf(fmt.Errorf("boom")))
	assert.Equal(t, CodeConflict, CodeOf(fmt.Errorf("wrap: %w", Conflictf("category %q exists", "JLPT N5"))))
}
