package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

type syncRequest struct {
	ViewerEmail string      `json:"viewer_email" validate:"required,email"`
	Notes       []noteEntry `json:"notes" validate:"dive"`
}

type noteEntry struct {
	ID       string `json:"id" validate:"required,max=256"`
	Markdown string `json:"markdown" validate:"required"`
}

func TestValidator_Valid(t *testing.T) {
	v := validation.New()

	err := v.Validate(syncRequest{
		ViewerEmail: "bob@example.com",
		Notes:       []noteEntry{{ID: "n1", Markdown: "# hi"}},
	})
	assert.NoError(t, err)
}

func TestValidator_MissingFields(t *testing.T) {
	v := validation.New()

	err := v.Validate(syncRequest{})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus())

	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["viewer_email"])
}

func TestValidator_UsesJSONTagNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(syncRequest{
		ViewerEmail: "not-an-email",
		Notes:       []noteEntry{{ID: "n1", Markdown: "x"}},
	})
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	details := appErr.Details.(map[string]string)
	assert.Contains(t, details, "viewer_email")
	assert.Equal(t, "must be a valid email address", details["viewer_email"])
}
