// Package apperr defines the typed errors returned across the service boundary.
package apperr

import (
	"errors"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindInvalidTransition Kind = "invalid_transition"
	KindDuplicate         Kind = "duplicate"
	KindSelfReference     Kind = "self_reference"
	KindInternal          Kind = "internal"
)

// Error carries a machine-readable Code and a human-readable Message.
// Two Errors match under errors.Is when their codes are equal.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func InvalidTransition(code, message string) *Error {
	return New(KindInvalidTransition, code, message)
}

func Duplicate(code, message string) *Error {
	return New(KindDuplicate, code, message)
}

func SelfReference(code, message string) *Error {
	return New(KindSelfReference, code, message)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Internal(code, message string) *Error {
	return New(KindInternal, code, message)
}
