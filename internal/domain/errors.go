package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a core operation failure. Handlers map kinds to HTTP
// statuses; batch operations report kinds per item.
type ErrorKind string

const (
	KindValidation             ErrorKind = "validation"
	KindDuplicateItem          ErrorKind = "duplicate_item"
	KindNotAvailable           ErrorKind = "not_available"
	KindNotFound               ErrorKind = "not_found"
	KindInvalidTransition      ErrorKind = "invalid_transition"
	KindExternalServiceFailure ErrorKind = "external_service_failure"
	KindPermissionDenied       ErrorKind = "permission_denied"
)

type Error struct {
	Kind   ErrorKind
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Op, e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a new structured error.
func E(kind ErrorKind, op, detail string) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail}
}

// WrapE wraps an underlying error with a kind and operation.
func WrapE(kind ErrorKind, op, detail string, err error) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail, Err: err}
}

// KindOf returns the kind of err, or KindExternalServiceFailure for errors
// that did not originate in the core.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindExternalServiceFailure
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
