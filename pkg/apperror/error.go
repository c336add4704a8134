// Package apperror defines the error values handlers return and the echo
// error handler that renders them as {"error":{"code","message"}}.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an application error with HTTP status and error code
type Error struct {
	HTTPStatus int
	Code       string
	Message    string
	Internal   error
	Details    map[string]any
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the internal error
func (e *Error) Unwrap() error {
	return e.Internal
}

// Is matches app errors by code so wrapped copies still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) clone() *Error {
	c := *e
	return &c
}

// WithInternal returns a copy carrying err as the cause. The cause is logged, never sent.
func (e *Error) WithInternal(err error) *Error {
	c := e.clone()
	c.Internal = err
	return c
}

// WithMessage returns a copy with a custom message
func (e *Error) WithMessage(message string) *Error {
	c := e.clone()
	c.Message = message
	return c
}

// WithDetails returns a copy with details rendered under "details".
func (e *Error) WithDetails(details map[string]any) *Error {
	c := e.clone()
	c.Details = details
	return c
}

// New creates a new application error
func New(status int, code, message string) *Error {
	return &Error{
		HTTPStatus: status,
		Code:       code,
		Message:    message,
	}
}

var (
	// Authentication
	ErrUnauthorized    = New(http.StatusUnauthorized, "unauthorized", "Authentication required")
	ErrInvalidAPIKey   = New(http.StatusUnauthorized, "invalid_api_key", "Invalid API key")
	ErrSessionExpired  = New(http.StatusUnauthorized, "session_expired", "Session has expired")
	ErrInvalidPassword = New(http.StatusUnauthorized, "invalid_password", "Invalid password")

	// Resources
	ErrNotFound        = New(http.StatusNotFound, "not_found", "Resource not found")
	ErrUnknownDomain   = New(http.StatusNotFound, "unknown_domain", "Unknown content domain")
	ErrRevisionMissing = New(http.StatusNotFound, "revision_not_found", "Revision not found")
	ErrConflict        = New(http.StatusConflict, "conflict", "Resource already exists")

	// Input
	ErrBadRequest      = New(http.StatusBadRequest, "bad_request", "Invalid request")
	ErrValidation      = New(http.StatusUnprocessableEntity, "validation_error", "Validation failed")
	ErrPayloadTooLarge = New(http.StatusRequestEntityTooLarge, "payload_too_large", "Request body is too large")
	ErrRateLimited     = New(http.StatusTooManyRequests, "rate_limited", "Too many requests, slow down")

	// Server side
	ErrInternal        = New(http.StatusInternalServerError, "internal_error", "An internal error occurred")
	ErrStore           = New(http.StatusInternalServerError, "store_error", "Content store operation failed")
	ErrCorruptDocument = New(http.StatusInternalServerError, "corrupt_document", "Stored document could not be decoded")
	ErrStorageDisabled = New(http.StatusServiceUnavailable, "storage_disabled", "Object storage is not configured")
)

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ToHTTPError returns the status and response body for err. Errors that are
// not *Error render as internal_error without leaking their text.
func ToHTTPError(err error) (int, map[string]any) {
	appErr, ok := As(err)
	if !ok {
		appErr = ErrInternal
	}
	return appErr.HTTPStatus, map[string]any{"error": body(appErr)}
}

func body(e *Error) map[string]any {
	b := map[string]any{
		"code":    e.Code,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		b["details"] = e.Details
	}
	return b
}

// NewBadRequest creates a bad request error with a custom message
func NewBadRequest(message string) *Error {
	return ErrBadRequest.WithMessage(message)
}

// NewNotFound creates a not found error for a resource type and ID
func NewNotFound(resourceType, id string) *Error {
	return ErrNotFound.WithMessage(fmt.Sprintf("%s '%s' not found", resourceType, id))
}

// NewInternal creates an internal error with a message and the cause
func NewInternal(message string, err error) *Error {
	return ErrInternal.WithMessage(message).WithInternal(err)
}
