package js

import (
	"github.com/dop251/goja"

	"go.k6.io/typedview/errext"
	"go.k6.io/typedview/errext/exitcodes"
	"go.k6.io/typedview/js/common"
)

// scriptException is an uncaught exception thrown by a script. Engine errors
// carry their hint in the `hint` property of the thrown object, which is
// read when the exception is wrapped.
type scriptException struct {
	inner *goja.Exception
	hint  string
}

var (
	_ errext.Exception   = &scriptException{}
	_ errext.HasExitCode = &scriptException{}
	_ errext.HasHint     = &scriptException{}
)

func newScriptException(ex *goja.Exception) *scriptException {
	return &scriptException{inner: ex, hint: exceptionHint(ex)}
}

func exceptionHint(ex *goja.Exception) (hint string) {
	obj, ok := ex.Value().(*goja.Object)
	if !ok {
		return ""
	}
	// a throwing getter leaves the exception without a hint
	defer func() {
		if r := recover(); r != nil {
			hint = ""
		}
	}()
	if v := obj.Get("hint"); !common.IsNullish(v) {
		return v.String()
	}
	return ""
}

func (s *scriptException) Error() string {
	return s.inner.Error()
}

// StackTrace returns the message of the exception followed by the JS stack.
func (s *scriptException) StackTrace() string {
	return s.inner.String()
}

func (s *scriptException) Unwrap() error {
	return s.inner
}

func (s *scriptException) Hint() string {
	return s.hint
}

func (s *scriptException) ExitCode() exitcodes.ExitCode {
	return exitcodes.ScriptException
}
