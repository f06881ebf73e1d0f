// Package errx carries the caller-visible failure taxonomy shared by the
// services and the HTTP layer.
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure the way callers see it.
type Kind string

const (
	InvalidArgument    Kind = "invalid-argument"
	NotFound           Kind = "not-found"
	FailedPrecondition Kind = "failed-precondition"
	AlreadyExists      Kind = "already-exists"
	Unauthenticated    Kind = "unauthenticated"
	PermissionDenied   Kind = "permission-denied"
	Internal           Kind = "internal"
)

// HTTPStatus maps a kind onto the status code written by handlers.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidArgument:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case FailedPrecondition:
		return http.StatusPreconditionFailed
	case AlreadyExists:
		return http.StatusConflict
	case Unauthenticated:
		return http.StatusUnauthorized
	case PermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a typed failure. Reason refines FailedPrecondition failures
// ("invalid", "expired", "exhausted").
type Error struct {
	Kind    Kind
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Reason != "" && e.Err != nil:
		return fmt.Sprintf("%s(%s): %s: %v", e.Kind, e.Reason, e.Message, e.Err)
	case e.Reason != "":
		return fmt.Sprintf("%s(%s): %s", e.Kind, e.Reason, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a typed error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Precondition returns a FailedPrecondition error with a machine readable reason.
func Precondition(reason, msg string) *Error {
	return &Error{Kind: FailedPrecondition, Reason: reason, Message: msg}
}

// Wrap attaches a kind and message to an underlying error.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the kind of the first typed error in err's chain.
// Untyped errors are Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// ReasonOf reports the precondition reason, if any.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// MessageOf returns the caller-safe message. Untyped errors never leak
// their text.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// IsTyped reports whether err already carries a kind.
func IsTyped(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
