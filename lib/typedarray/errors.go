package typedarray

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the errors raised by the engine. The kinds map onto the
// ECMAScript error constructors of the same name.
type ErrorKind uint8

const (
	// TypeError is raised when an operation is applied to a view that is out
	// of bounds, or when the coercion protocol is violated.
	TypeError ErrorKind = iota + 1

	// RangeError is raised when a numeric argument is outside of its valid
	// range, or when a view's span does not fit its buffer at construction.
	RangeError

	// SyntaxError is raised by a coercer when a string cannot be parsed as a
	// BigInt.
	SyntaxError
)

func (k ErrorKind) String() string {
	switch k {
	case TypeError:
		return "TypeError"
	case RangeError:
		return "RangeError"
	case SyntaxError:
		return "SyntaxError"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// Error is an error detected by the engine itself, as opposed to an error
// thrown by user code during coercion, which is always propagated unmodified.
type Error struct {
	Kind    ErrorKind
	Message string

	hint string
}

var _ error = (*Error)(nil)

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// Hint returns a human readable suggestion attached to the error, if any.
func (e *Error) Hint() string {
	return e.hint
}

func newTypeError(format string, args ...any) *Error {
	return &Error{Kind: TypeError, Message: fmt.Sprintf(format, args...)}
}

func newRangeError(format string, args ...any) *Error {
	return &Error{Kind: RangeError, Message: fmt.Sprintf(format, args...)}
}

const outOfBoundsHint = "the backing buffer was resized or detached and no longer covers the view; " +
	"length-tracking views (created without an explicit length) follow the buffer instead"

func newOutOfBoundsError(method string) *Error {
	return &Error{
		Kind:    TypeError,
		Message: method + ": the typed array view is out of bounds",
		hint:    outOfBoundsHint,
	}
}

// IsTypeError reports whether err, or any error it wraps, is an engine TypeError.
func IsTypeError(err error) bool {
	return isKind(err, TypeError)
}

// IsRangeError reports whether err, or any error it wraps, is an engine RangeError.
func IsRangeError(err error) bool {
	return isKind(err, RangeError)
}

func isKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
