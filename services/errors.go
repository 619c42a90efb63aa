package services

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is returned by every service operation. Code follows the
// <http status><nn> numbering used in API responses.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can write errors.Is(err, services.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == 0 && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrInternal        = &Error{Kind: KindInternal}
)

func invalid(code int, msg string) error {
	return &Error{Kind: KindValidation, Code: code, Message: msg}
}

func unauthenticated(code int, msg string) error {
	return &Error{Kind: KindUnauthenticated, Code: code, Message: msg}
}

func forbidden(code int, msg string) error {
	return &Error{Kind: KindForbidden, Code: code, Message: msg}
}

func notFound(code int, msg string) error {
	return &Error{Kind: KindNotFound, Code: code, Message: msg}
}

func internal(code int, msg string, err error) error {
	return &Error{Kind: KindInternal, Code: code, Message: msg, Err: err}
}

// AsError unwraps err into *Error, wrapping unknown errors as internal.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Code: 50000, Message: "internal error", Err: err}
}
