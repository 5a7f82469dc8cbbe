// Package apperr defines the error taxonomy shared by every lifecycle
// operation. Handlers and stores wrap raw failures into one of these kinds
// before they reach the HTTP layer; respond.Error maps each kind to a status
// code. Raw persistence errors never reach a caller.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	// Internal is an unexpected failure (persistence, programming error).
	Internal Kind = iota
	// Validation means a malformed or missing field; FieldErrors carries the
	// aggregated per-field messages.
	Validation
	// Forbidden means a role or ownership mismatch.
	Forbidden
	// NotFound means the id resolved to nothing.
	NotFound
	// InvalidID means the id is not a well-formed ObjectID. Deliberately
	// distinct from NotFound; it maps to 400, not 404.
	InvalidID
	// Conflict means a state-machine violation: not open, already applied,
	// wrong status for the requested transition, capacity exceeded.
	Conflict
	// Unauthorized means no valid credentials were presented.
	Unauthorized
)

// Error is an application error with a kind, a human-readable message, and
// optional field-level detail for validation failures.
type Error struct {
	Kind        Kind
	Message     string
	FieldErrors []string
	Err         error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.FieldErrors) > 0 {
		return strings.Join(e.FieldErrors, ", ")
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case Validation, InvalidID, Conflict:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to an underlying cause.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// ValidationFailed aggregates field-level messages into a single Validation
// error, joined for the top-level message the same way the field errors are
// surfaced to clients.
func ValidationFailed(fields []string) *Error {
	return &Error{Kind: Validation, Message: strings.Join(fields, ", "), FieldErrors: fields}
}

// As extracts an *Error from err, or wraps err as Internal when it is some
// other error type.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Kind: Internal, Message: "Server error", Err: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
