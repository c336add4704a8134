package apperror

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// statusCodes names the plain echo.HTTPErrors raised by the router and middleware.
var statusCodes = map[int]string{
	http.StatusBadRequest:            "bad_request",
	http.StatusUnauthorized:          "unauthorized",
	http.StatusForbidden:             "forbidden",
	http.StatusNotFound:              "not_found",
	http.StatusMethodNotAllowed:      "method_not_allowed",
	http.StatusConflict:              "conflict",
	http.StatusRequestEntityTooLarge: "payload_too_large",
	http.StatusUnprocessableEntity:   "validation_error",
	http.StatusTooManyRequests:       "rate_limited",
}

// fromEcho converts an echo.HTTPError into an *Error.
func fromEcho(he *echo.HTTPError) *Error {
	e := &Error{HTTPStatus: he.Code, Code: "internal_error", Message: http.StatusText(he.Code), Internal: he.Internal}
	if code, ok := statusCodes[he.Code]; ok {
		e.Code = code
	}
	if msg, ok := he.Message.(string); ok && msg != "" {
		e.Message = msg
	}
	if he.Code >= http.StatusInternalServerError {
		e.Message = ErrInternal.Message
	}
	return e
}

// HTTPErrorHandler returns an Echo error handler that renders every error as
// {"error":{"code":...,"message":...}}. 5xx responses are logged with their cause.
func HTTPErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr, ok := As(err)
		if !ok {
			if he, isEcho := err.(*echo.HTTPError); isEcho {
				appErr = fromEcho(he)
			} else {
				appErr = ErrInternal.WithInternal(err)
			}
		}

		if appErr.HTTPStatus >= http.StatusInternalServerError {
			log.Error("request error",
				slog.Int("status", appErr.HTTPStatus),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.String("error", err.Error()),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(appErr.HTTPStatus)
			return
		}
		_ = c.JSON(appErr.HTTPStatus, map[string]any{"error": body(appErr)})
	}
}
