package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	assert.Equal(t, "unknown_domain: Unknown content domain", ErrUnknownDomain.Error())
	assert.Equal(t, "store_error: Content store operation failed (disk full)",
		ErrStore.WithInternal(errors.New("disk full")).Error())
}

func TestError_CopiesDoNotMutateSentinels(t *testing.T) {
	cause := errors.New("bad json")
	e := ErrCorruptDocument.
		WithMessage("careers could not be decoded").
		WithInternal(cause).
		WithDetails(map[string]any{"domain": "careers"})

	assert.Equal(t, "careers could not be decoded", e.Message)
	assert.Equal(t, http.StatusInternalServerError, e.HTTPStatus)
	assert.Equal(t, "careers", e.Details["domain"])
	assert.ErrorIs(t, e, cause)

	assert.Equal(t, "Stored document could not be decoded", ErrCorruptDocument.Message)
	assert.Nil(t, ErrCorruptDocument.Internal)
	assert.Nil(t, ErrCorruptDocument.Details)
}

func TestError_IsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("pricing: %w", ErrValidation.WithMessage("name is required"))

	assert.ErrorIs(t, wrapped, ErrValidation)
	assert.NotErrorIs(t, wrapped, ErrBadRequest)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "name is required", got.Message)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *Error
		status  int
		code    string
		message string
	}{
		{"bad request", NewBadRequest("invalid revision"), http.StatusBadRequest, "bad_request", "invalid revision"},
		{"not found", NewNotFound("plan", "plan-web-starter"), http.StatusNotFound, "not_found", "plan 'plan-web-starter' not found"},
		{"internal", NewInternal("failed to encode default", errors.New("x")), http.StatusInternalServerError, "internal_error", "failed to encode default"},
		{"custom", New(http.StatusTeapot, "teapot", "short and stout"), http.StatusTeapot, "teapot", "short and stout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.message, tt.err.Message)
		})
	}
	assert.Error(t, NewInternal("x", errors.New("cause")).Internal)
}

func TestToHTTPError(t *testing.T) {
	status, body := ToHTTPError(ErrRevisionMissing.WithDetails(map[string]any{"revision": 7}))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, map[string]any{
		"error": map[string]any{
			"code":    "revision_not_found",
			"message": "Revision not found",
			"details": map[string]any{"revision": 7},
		},
	}, body)

	status, body = ToHTTPError(errors.New("connection reset by peer"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal_error", body["error"].(map[string]any)["code"])
	assert.NotContains(t, fmt.Sprint(body), "connection reset")
}

func TestSentinelStatuses(t *testing.T) {
	for _, tt := range []struct {
		err    *Error
		status int
	}{
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrInvalidAPIKey, http.StatusUnauthorized},
		{ErrSessionExpired, http.StatusUnauthorized},
		{ErrInvalidPassword, http.StatusUnauthorized},
		{ErrUnknownDomain, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrValidation, http.StatusUnprocessableEntity},
		{ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
		{ErrRateLimited, http.StatusTooManyRequests},
		{ErrStore, http.StatusInternalServerError},
		{ErrStorageDisabled, http.StatusServiceUnavailable},
	} {
		assert.Equal(t, tt.status, tt.err.HTTPStatus, tt.err.Code)
	}
}
