package dns

import (
	"errors"
	"fmt"
)

// Kind classifies a DNS operation failure.
type Kind string

const (
	// KindValidation is malformed input, detected before any remote call.
	KindValidation Kind = "validation"
	// KindNotFound means a selector resolved to zero records but the
	// operation required at least one.
	KindNotFound Kind = "not_found"
	// KindNoChange means a write would leave the record field-identical to
	// its current remote state.
	KindNoChange Kind = "no_change"
	// KindAPIFailure is any non-success response from the remote API.
	KindAPIFailure Kind = "api_failure"
)

// Error is a categorized operation failure. The remote message, when there
// is one, is preserved in the wrapped error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dns: %s: %v", e.Message, e.Err)
	}
	return "dns: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the failure category, or "" for errors that did not come
// out of this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func validationErr(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundErr(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func noChangeErr(format string, args ...any) *Error {
	return &Error{Kind: KindNoChange, Message: fmt.Sprintf(format, args...)}
}

// apiErr wraps a gateway failure, keeping the remote message reachable via
// errors.As on the underlying type.
func apiErr(message string, err error) *Error {
	return &Error{Kind: KindAPIFailure, Message: message, Err: err}
}
