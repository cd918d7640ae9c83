package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// AppError carries an explicit HTTP status alongside the wrapped cause.
// Message is what the client sees; Err is kept for logging and errors.Is.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound returns a 404 reading "<what> not found"; errors.Is still
// matches ErrNotFound.
func NotFound(what string) error {
	return New(http.StatusNotFound, what+" not found", ErrNotFound)
}

// Forbidden returns a 403 carrying msg and matching ErrForbidden.
func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg, ErrForbidden)
}

// BadRequest returns a 400 carrying msg and matching ErrBadRequest.
func BadRequest(msg string) error {
	return New(http.StatusBadRequest, msg, ErrBadRequest)
}

// Message is the client-facing text for err: the outermost AppError message
// in the chain, else err.Error().
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}

// MapErrorToStatus maps an error chain to an HTTP status code.
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
