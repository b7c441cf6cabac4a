// Package apperr defines the tagged error taxonomy shared by services and
// repositories. Every failure carries a machine-readable Kind and a
// human-readable message; the kind survives all call boundaries and is
// mapped to a transport status only at the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the caller.
type Kind int

const (
	// KindBadRequest marks malformed, missing, or conflicting input that the
	// caller can fix.
	KindBadRequest Kind = iota + 1
	// KindUnauthorized marks a credential mismatch. Messages are deliberately
	// non-specific to avoid account enumeration.
	KindUnauthorized
	// KindNotFound marks a referenced entity that does not exist.
	KindNotFound
	// KindInternal marks missing configuration or a dependency failure.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// Error is a tagged error value.
type Error struct {
	Kind    Kind
	Message string
	// Err is the wrapped cause, if any. Never shown to the caller directly.
	Err error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is allows errors.Is matching by kind against another *Error.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}

// BadRequest constructs a caller-fixable validation failure.
func BadRequest(format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized constructs a credential failure.
func Unauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// NotFound constructs a missing-entity failure.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Internal constructs an internal failure, optionally wrapping its cause.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: cause}
}

// KindOf extracts the kind from err. Untagged errors count as internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}
