// Package apperr defines the application error taxonomy.
//
// Repositories and services return these instead of raw storage errors so
// that callers can branch on the failure kind and the HTTP layer can map
// each kind to a status code without inspecting error strings. Anything
// that is not an *Error is treated as an unexpected internal failure and
// must never reach a client verbatim.
package apperr

import (
	"errors"
	"fmt"
)

// Kind discriminates the failure classes the application knows about.
type Kind string

const (
	KindValidation   Kind = "validation"    // malformed or missing input
	KindDuplicate    Kind = "duplicate"     // uniqueness violation
	KindConflict     Kind = "conflict"      // delete blocked by existing references
	KindAuthRequired Kind = "auth_required" // not signed in
	KindForbidden    Kind = "forbidden"     // signed in but lacking rights
	KindNotFound     Kind = "not_found"     // target does not exist
)

// Error is a classified, user-presentable failure.
type Error struct {
	Kind    Kind
	Message string

	// BlockingCount is set on KindConflict errors and carries the number
	// of records preventing the operation.
	BlockingCount int
}

func (e *Error) Error() string {
	return e.Message
}

// Validation builds a KindValidation error. The message should identify
// the first failing field.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Duplicate builds a KindDuplicate error for uniqueness violations.
func Duplicate(format string, args ...any) *Error {
	return &Error{Kind: KindDuplicate, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a KindConflict error carrying the blocking count.
func Conflict(count int, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...), BlockingCount: count}
}

// AuthRequired builds a KindAuthRequired error.
func AuthRequired(message string) *Error {
	return &Error{Kind: KindAuthRequired, Message: message}
}

// Forbidden builds a KindForbidden error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound builds a KindNotFound error for the named resource.
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// As unwraps err to an *Error, or returns nil if it is not one.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	ae := As(err)
	return ae != nil && ae.Kind == kind
}
