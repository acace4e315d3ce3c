package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide on user-visible behavior
// without parsing messages.
type Kind string

const (
	NotFound       Kind = "not_found"
	InvalidRequest Kind = "invalid_request"
	Conflict       Kind = "conflict"
	CryptoFailure  Kind = "crypto_failure"
	Unavailable    Kind = "unavailable"
)

// Error is a kinded error. It wraps an underlying cause when one exists.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a kinded error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds a kinded error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf reports the kind of err, or "" when err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}
