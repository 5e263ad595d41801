// Package common contains the glue shared by the JS side of typedview: turning
// Go errors into JS exceptions and the init environment handed to modules.
package common

import (
	"errors"

	"github.com/dop251/goja"

	"go.k6.io/typedview/lib/typedarray"
)

// Throw a JS error; avoids re-wrapping GoErrors. Errors raised by the engine
// are thrown as instances of the JS error constructor of the same kind, so
// that scripts can test them with instanceof.
func Throw(rt *goja.Runtime, err error) {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		panic(ex)
	}
	var engineErr *typedarray.Error
	if errors.As(err, &engineErr) {
		panic(NewError(rt, engineErr))
	}
	panic(rt.NewGoError(err))
}

// NewError creates the JS error object matching err's kind. A hint attached
// to err is exposed as the `hint` property of the object.
func NewError(rt *goja.Runtime, err *typedarray.Error) *goja.Object {
	constructor, ok := goja.AssertConstructor(rt.Get(err.Kind.String()))
	if !ok {
		return rt.NewGoError(err)
	}
	obj, cerr := constructor(nil, rt.ToValue(err.Message))
	if cerr != nil {
		return rt.NewGoError(err)
	}
	if hint := err.Hint(); hint != "" {
		_ = obj.Set("hint", hint)
	}
	return obj
}

// IsNullish checks if the given value is nullish, i.e. nil, undefined or null.
func IsNullish(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v) || goja.IsNull(v)
}
