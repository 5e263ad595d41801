package lib

import (
	"errors"
	"fmt"

	"gopkg.in/guregu/null.v3"

	"go.k6.io/typedview/lib/typedarray"
)

// DefaultMaxByteLength is the maxByteLength given to a ResizableBuffer that is
// constructed from a script without one.
const DefaultMaxByteLength = 64 * 1024

// Options are the options that affect how scripts create and observe buffers.
// Every field is nullable, so that a lower config tier can be told apart from
// an explicit zero value in a higher one.
type Options struct {
	// MaxByteLength is used by `new ResizableBuffer(n)` calls without options.
	MaxByteLength null.Int `json:"maxByteLength" envconfig:"TYPEDVIEW_MAX_BYTE_LENGTH"`

	// LogResizes makes every buffer created by a script log its resizes and
	// detaches at debug level.
	LogResizes null.Bool `json:"logResizes" envconfig:"TYPEDVIEW_LOG_RESIZES"`
}

// DefaultOptions returns the options with every default filled in.
func DefaultOptions() Options {
	return Options{
		MaxByteLength: null.NewInt(DefaultMaxByteLength, false),
		LogResizes:    null.NewBool(false, false),
	}
}

// Apply returns the result of overwriting o with every valid field of opts.
func (o Options) Apply(opts Options) Options {
	if opts.MaxByteLength.Valid {
		o.MaxByteLength = opts.MaxByteLength
	}
	if opts.LogResizes.Valid {
		o.LogResizes = opts.LogResizes
	}
	return o
}

// Validate checks the consolidated options and returns every problem found.
func (o Options) Validate() []error {
	var errs []error
	if o.MaxByteLength.Int64 < 0 || o.MaxByteLength.Int64 > typedarray.MaxSafeInteger {
		errs = append(errs, fmt.Errorf(
			"maxByteLength must be between 0 and %d, got %d", int64(typedarray.MaxSafeInteger), o.MaxByteLength.Int64,
		))
	}
	return errs
}

// ValidationError joins the errors returned by Validate, or returns nil.
func (o Options) ValidationError() error {
	return errors.Join(o.Validate()...)
}
