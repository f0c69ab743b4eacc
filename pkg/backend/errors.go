package backend

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error unwraps to exactly one of these.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")
	ErrNetwork      = errors.New("network error")
	ErrTimeout      = errors.New("request timed out")
)

// Error is a failed backend call.
type Error struct {
	Kind       error
	Op         string
	StatusCode int
	// Message is the server-provided message, if any.
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend %s: %v (HTTP %d): %s", e.Op, e.Kind, e.StatusCode, msg)
	}
	if msg == "" {
		return fmt.Sprintf("backend %s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("backend %s: %v: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// MessageOf returns the server-provided message carried by err, or fallback.
func MessageOf(err error, fallback string) string {
	var be *Error
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}

// KindOf names the error kind for responses, logs and metrics labels.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "auth"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrServer):
		return "server"
	default:
		return "unknown"
	}
}

// IsAuth reports whether err means the admin has to log in again.
func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
