package logic

import (
	"errors"
	"net/http"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)

// FieldError is a rejection that names the offending fields. It unwraps to
// one of the sentinels above, which picks the HTTP status.
type FieldError struct {
	Kind   error
	Msg    string
	Fields map[string]string
}

func (e *FieldError) Error() string { return e.Msg }
func (e *FieldError) Unwrap() error { return e.Kind }

func fieldError(kind error, msg string, fields map[string]string) *FieldError {
	return &FieldError{Kind: kind, Msg: msg, Fields: fields}
}

// StatusOf maps a logic error to an HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
