// Package gameerr defines the recoverable failure kinds shared by the
// engine, the session manager and the service layer.
//
// A failure is an *Error carrying a Kind and a user-facing message. Kinds
// themselves implement error so callers can match with errors.Is:
//
//	if errors.Is(err, gameerr.CapacityExceeded) {
//		// session is full
//	}
package gameerr

import (
	"errors"
	"fmt"
)

// Kind classifies a recoverable failure
type Kind string

const (
	NotFound         Kind = "not_found"
	InvalidState     Kind = "invalid_state"
	CapacityExceeded Kind = "capacity_exceeded"
	DuplicateMember  Kind = "duplicate_member"
	InvalidInput     Kind = "invalid_input"
)

// Error implements error so a bare Kind can be used as an errors.Is target.
func (k Kind) Error() string {
	return string(k)
}

// Error is a recoverable domain failure
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is this error's Kind or an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Kind:
		return e.Kind == t
	case *Error:
		return e.Kind == t.Kind
	}
	return false
}

// New creates an Error with a formatted message
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or "" if err is not a domain failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}
