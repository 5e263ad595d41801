package modulestest

import (
	"context"
	"net/url"
	"testing"

	"github.com/dop251/goja"

	"go.k6.io/typedview/js/common"
	"go.k6.io/typedview/js/modules"
	"go.k6.io/typedview/lib"
	"go.k6.io/typedview/lib/fsext"
	"go.k6.io/typedview/lib/testutils"
)

// Runtime is a helper struct that contains what is needed to run a (simple) module test
type Runtime struct {
	VU            *VU
	CancelContext func()
	LogHook       *testutils.SimpleLogrusHook
	FS            fsext.Fs
}

// NewRuntime will create a new test runtime. Its context is canceled when the
// test ends, and everything logged through the init environment, including
// the console, is captured by LogHook.
func NewRuntime(t testing.TB) *Runtime {
	return NewRuntimeWithOptions(t, lib.Options{})
}

// NewRuntimeWithOptions is NewRuntime with the given options in the init
// environment.
func NewRuntimeWithOptions(t testing.TB, opts lib.Options) *Runtime {
	rt := goja.New()
	rt.SetFieldNameMapper(common.FieldNameMapper{})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger, hook := testutils.NewLogger(t)
	fs := fsext.NewMemMapFs()
	vu := &VU{
		CtxField:     ctx,
		RuntimeField: rt,
		InitEnvField: &common.InitEnvironment{
			Logger:      logger,
			FileSystems: map[string]fsext.Fs{"file": fs},
			CWD:         &url.URL{Scheme: "file", Path: "/"},
			Options:     lib.DefaultOptions().Apply(opts),
		},
	}
	if err := rt.Set("console", newConsole(logger)); err != nil {
		t.Fatal(err)
	}

	return &Runtime{
		VU:            vu,
		CancelContext: cancel,
		LogHook:       hook,
		FS:            fs,
	}
}

// SetupModuleSystem installs a require function resolving the given modules.
func (r *Runtime) SetupModuleSystem(goModules map[string]interface{}) error {
	return modules.NewModuleSystem(r.VU, goModules).Install()
}

// ExposeModule makes every named export of mod a global of the runtime.
func (r *Runtime) ExposeModule(mod modules.Module) error {
	for k, v := range mod.NewModuleInstance(r.VU).Exports().Named {
		if err := r.VU.RuntimeField.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// RunString runs code on the runtime.
func (r *Runtime) RunString(code string) (goja.Value, error) {
	return r.VU.RuntimeField.RunString(code)
}
