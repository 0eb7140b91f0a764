package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a failed API call. Status is 0 when the request never got a response.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
	// Fields carries the server's per-field rejection map, if it sent one.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %d: %v", e.Method, e.Path, e.Status, e.Err)
	default:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Transport reports whether the call failed before any HTTP response arrived.
func (e *Error) Transport() bool { return e.Status == 0 }

// Code is a short label for fault displays: the HTTP status or ERR_NETWORK.
func (e *Error) Code() string {
	if e.Transport() {
		return "ERR_NETWORK"
	}
	return fmt.Sprintf("HTTP_%d", e.Status)
}

// errorBody is the rejection shape of the game API. "message" is accepted as an alias of "msg".
type errorBody struct {
	Msg     string            `json:"msg"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  map[string]string `json:"errors"`
}

func decodeError(method, path string, status int, raw []byte) *Error {
	e := &Error{Method: method, Path: path, Status: status}
	var b errorBody
	if len(raw) > 0 && json.Unmarshal(raw, &b) == nil {
		e.Message = strings.TrimSpace(b.Msg)
		if e.Message == "" {
			e.Message = strings.TrimSpace(b.Message)
		}
		if len(b.Errors) > 0 {
			e.Fields = b.Errors
		}
	}
	return e
}

// FieldErrors extracts the structured per-field rejection carried by err.
func FieldErrors(err error) (map[string]string, bool) {
	var ae *Error
	if errors.As(err, &ae) && len(ae.Fields) > 0 {
		return ae.Fields, true
	}
	return nil, false
}

// Message returns the server-supplied message for err, or "".
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}
