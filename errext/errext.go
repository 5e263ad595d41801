// Package errext contains extensions for normal Go errors that are used by
// typedview: hints, exit codes and script exceptions.
package errext

import (
	"errors"

	"go.k6.io/typedview/errext/exitcodes"
)

// Exception is an error thrown by a script. Its stack trace is what gets
// shown to users instead of the short message.
type Exception interface {
	error
	StackTrace() string
}

// HasHint is an error carrying a human readable suggestion, for example
// what to change so that a view stops being out of bounds.
type HasHint interface {
	error
	Hint() string
}

// HasExitCode is an error that decides the exit code of the process.
type HasExitCode interface {
	error
	ExitCode() exitcodes.ExitCode
}

type withHint struct {
	error
	hint string
}

var _ HasHint = withHint{}

func (wh withHint) Unwrap() error { return wh.error }

// Hint returns the hint, followed by the hints of the wrapped errors in
// parentheses.
func (wh withHint) Hint() string {
	var inner HasHint
	if errors.As(wh.error, &inner) && inner.Hint() != "" {
		return wh.hint + " (" + inner.Hint() + ")"
	}
	return wh.hint
}

// WithHint attaches hint to err. A nil err stays nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return withHint{err, hint}
}

type withExitCode struct {
	error
	exitCode exitcodes.ExitCode
}

var _ HasExitCode = withExitCode{}

func (we withExitCode) Unwrap() error { return we.error }

func (we withExitCode) ExitCode() exitcodes.ExitCode { return we.exitCode }

// WithExitCodeIfNone attaches exitCode to err unless something in its chain
// already has one. A nil err stays nil.
func WithExitCodeIfNone(err error, exitCode exitcodes.ExitCode) error {
	if err == nil {
		return nil
	}
	var ecerr HasExitCode
	if errors.As(err, &ecerr) {
		return err
	}
	return withExitCode{err, exitCode}
}

// ExitCodeOf returns the exit code attached to err, or def when there is none.
func ExitCodeOf(err error, def exitcodes.ExitCode) exitcodes.ExitCode {
	var ecerr HasExitCode
	if errors.As(err, &ecerr) {
		return ecerr.ExitCode()
	}
	return def
}

// Format returns the text and the log fields for err. Exceptions are shown
// with their stack trace and hints end up in the "hint" field.
func Format(err error) (string, map[string]interface{}) {
	if err == nil {
		return "", nil
	}

	errText := err.Error()
	var xerr Exception
	if errors.As(err, &xerr) {
		errText = xerr.StackTrace()
	}

	fields := make(map[string]interface{})
	var herr HasHint
	if errors.As(err, &herr) && herr.Hint() != "" {
		fields["hint"] = herr.Hint()
	}
	return errText, fields
}
