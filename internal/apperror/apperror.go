// Package apperror defines the error taxonomy shared by every component that
// talks to the Mentra backend.
//
// The API client translates each failed HTTP call into an *AppError wrapping
// one of the sentinel errors below, so callers branch with errors.Is and never
// inspect status codes themselves:
//
//	if errors.Is(err, apperror.ErrUnauthorized) { // token expired → go anonymous }
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
	// ErrUnavailable covers transport-level failures: DNS, refused connection,
	// timeout. There is no HTTP status to map — the request never completed.
	ErrUnavailable = errors.New("backend unavailable")
)

// AppError carries the sentinel plus the human-readable message. For backend
// rejections Message holds the response's detail text, so the UI can show the
// backend's own wording (the backend localises its messages).
type AppError struct {
	Err     error  // sentinel from the list above
	Message string // human-readable description
	Status  int    // HTTP status of the response, 0 for transport failures
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// FromStatus builds the AppError for a non-2xx backend response.
func FromStatus(status int, message string) *AppError {
	var sentinel error
	switch status {
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusForbidden:
		sentinel = ErrForbidden
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		sentinel = ErrValidation
	case http.StatusConflict:
		sentinel = ErrConflict
	default:
		sentinel = ErrServer
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &AppError{Err: sentinel, Message: message, Status: status}
}

// Unavailable wraps a transport-level failure (the request never got a
// response).
func Unavailable(err error) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: fmt.Sprintf("backend unreachable: %v", err),
	}
}

// ValidationFailed reports a client-side validation rejection, before any
// request is sent.
func ValidationFailed(message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message}
}

// NotFound reports a missing local resource (e.g. a thread id absent from the
// loaded thread list).
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}
