package remote

import (
	"errors"
	"fmt"
)

var (
	// -- Transport --
	ErrNetwork = errors.New("network failure")
	ErrServer  = errors.New("server error")

	// -- Session --
	ErrUnauthorized = errors.New("session expired")

	// -- State --
	ErrConflict = errors.New("state out of date")
	ErrNotFound = errors.New("not found")

	// -- Input (recovered locally, request never sent) --
	ErrValidation = errors.New("invalid input")
)

// Error is a failed call to the portal backend. Kind is always one of the
// sentinel errors above so callers can branch with errors.Is.
type Error struct {
	Kind      error
	Status    int
	Message   string
	RequestID string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote: %v (status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("remote: %v (status %d): %s", e.Kind, e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// kindForStatus maps an HTTP status to the error taxonomy.
func kindForStatus(status int) error {
	switch {
	case status == 401 || status == 403:
		return ErrUnauthorized
	case status == 404:
		return ErrNotFound
	case status == 409:
		return ErrConflict
	case status == 400 || status == 422:
		return ErrValidation
	case status >= 500:
		return ErrServer
	default:
		return ErrServer
	}
}
