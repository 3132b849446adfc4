package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"devcamper/internal/repository"
)

// Error classes. Use errors.Is against these to classify an error returned by a service.
var (
	ErrValidation      = NewHTTPError(http.StatusBadRequest, "invalid request", "VALIDATION_ERROR")
	ErrUnauthenticated = NewHTTPError(http.StatusUnauthorized, "Not authorized to access this route", "UNAUTHENTICATED")
	ErrForbidden       = NewHTTPError(http.StatusForbidden, "forbidden", "FORBIDDEN")
	ErrNotFound        = NewHTTPError(http.StatusNotFound, "Resource not found", "NOT_FOUND")
	ErrInternal        = NewHTTPError(http.StatusInternalServerError, "Server Error", "INTERNAL_ERROR")
)

// ErrorResponse is the wire shape of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches errors of the same class regardless of message.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   e.Message,
	}
}

// Validation builds a 400 error.
func Validation(format string, args ...any) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...), ErrValidation.Code)
}

// Unauthenticated builds a 401 error.
func Unauthenticated(format string, args ...any) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, fmt.Sprintf(format, args...), ErrUnauthenticated.Code)
}

// Forbidden builds a 403 error.
func Forbidden(format string, args ...any) *HTTPError {
	return NewHTTPError(http.StatusForbidden, fmt.Sprintf(format, args...), ErrForbidden.Code)
}

// NotFound builds a 404 error.
func NotFound(format string, args ...any) *HTTPError {
	return NewHTTPError(http.StatusNotFound, fmt.Sprintf(format, args...), ErrNotFound.Code)
}

// MapErrorToHTTP maps domain, persistence and framework errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, ok := echoErr.Message.(string)
		if !ok {
			msg = http.StatusText(echoErr.Code)
		}
		if echoErr.Code >= http.StatusInternalServerError {
			return ErrInternal
		}
		return NewHTTPError(echoErr.Code, msg, "HTTP_ERROR")
	}

	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidID):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicateKey):
		return Validation("Duplicate field value entered")
	case errors.Is(err, repository.ErrInvalidFilter):
		return Validation("%s", err.Error())
	default:
		return ErrInternal
	}
}

// NewHandler returns the echo error handler that writes every failure as
// {"success": false, "error": "..."}.
func NewHandler(logger *zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := MapErrorToHTTP(err)
		if httpErr.StatusCode >= http.StatusInternalServerError {
			logger.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(httpErr.StatusCode)
		} else {
			writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}
