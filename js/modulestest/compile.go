package modulestest

import (
	"github.com/dop251/goja"

	"go.k6.io/typedview/lib/fsext"
)

// CompileFile compiles a JS file from fs as a [*goja.Program].
func CompileFile(fs fsext.Fs, name string) (*goja.Program, error) {
	b, err := fsext.ReadFile(fs, name)
	if err != nil {
		return nil, err
	}

	return goja.Compile(name, string(b), false)
}

// CompileAndRun compiles a JS file from fs and runs it on the runtime.
func (r *Runtime) CompileAndRun(fs fsext.Fs, name string) (goja.Value, error) {
	program, err := CompileFile(fs, name)
	if err != nil {
		return nil, err
	}
	return r.VU.RuntimeField.RunProgram(program)
}
