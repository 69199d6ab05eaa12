package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/mrlokans/kotoba/internal/errors"
	"github.com/mrlokans/kotoba/internal/validation"
)

type testRequest struct {
	Term       string   `json:"term" validate:"notblank,max=512"`
	Type       string   `json:"type" validate:"required,oneof=vocab grammar"`
	Categories []string `json:"categories" validate:"dive,max=100"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(testRequest{Term: "食べる", Type: "vocab", Categories: []string{"N5"}})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       testRequest
		wantField string
		wantMsg   string
	}{
		{
			name:      "blank term",
			req:       testRequest{Term: "   ", Type: "vocab"},
			wantField: "term",
			wantMsg:   "is required",
		},
		{
			name:      "unknown type",
			req:       testRequest{Term: "x", Type: "kanji"},
			wantField: "type",
			wantMsg:   "must be one of: vocab grammar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var de *domainerrors.Error
			require.True(t, domainerrors.As(err, &de))
			assert.Equal(t, http.StatusBadRequest, de.HTTPStatus())

			details, ok := de.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}
