package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrRemoteUnavailable marks a failed call against the store of record.
	// The local mirror must never be written once this is returned.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrAuthRequired is returned when no identity could be established.
	ErrAuthRequired = errors.New("authentication required")

	ErrInvalidToken = errors.New("invalid or expired token")
	ErrInvalidRole  = errors.New("invalid user role")
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Remote wraps err so that callers can detect a remote store failure with
// errors.Is(err, ErrRemoteUnavailable).
func Remote(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrRemoteUnavailable, err)
}
