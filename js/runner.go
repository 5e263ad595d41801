// Package js runs scripts on goja with the typedview module available
// through require().
package js

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"runtime/debug"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"

	"go.k6.io/typedview/errext"
	"go.k6.io/typedview/errext/exitcodes"
	"go.k6.io/typedview/js/common"
	"go.k6.io/typedview/js/modules"
	"go.k6.io/typedview/lib"
	"go.k6.io/typedview/lib/consts"
	"go.k6.io/typedview/lib/fsext"
)

// Runner runs scripts. Every run gets a fresh runtime, so nothing a script
// does is visible to the next one.
type Runner struct {
	Logger  logrus.FieldLogger
	FS      fsext.Fs
	CWD     *url.URL
	Options lib.Options

	// ConsoleOutput, when set, is the path of a file the console writes to
	// instead of the logger.
	ConsoleOutput string

	// Modules are available to require() next to the built-in ones.
	Modules map[string]interface{}
}

// New returns a Runner reading scripts from fs, relative to cwd.
func New(logger logrus.FieldLogger, fs fsext.Fs, cwd *url.URL, opts lib.Options) *Runner {
	return &Runner{
		Logger:  logger,
		FS:      fs,
		CWD:     cwd,
		Options: lib.DefaultOptions().Apply(opts),
	}
}

// VU is a single runtime set up for running scripts.
type VU struct {
	Runtime *goja.Runtime

	moduleVU *moduleVUImpl
	modules  *modules.ModuleSystem
}

// NewVU creates a runtime with the console and require() installed. Scripts
// run on it are interrupted when ctx is done.
func (r *Runner) NewVU(ctx context.Context) (*VU, error) {
	rt := goja.New()
	rt.SetFieldNameMapper(common.FieldNameMapper{})

	c := newConsole(r.Logger)
	if r.ConsoleOutput != "" {
		formatter := &logrus.TextFormatter{}
		var err error
		if c, err = newFileConsole(r.FS, r.ConsoleOutput, formatter, logrus.DebugLevel); err != nil {
			return nil, fmt.Errorf("couldn't open the console output: %w", err)
		}
	}
	if err := rt.Set("console", c); err != nil {
		return nil, err
	}

	mvu := &moduleVUImpl{
		ctx:     ctx,
		runtime: rt,
		initEnv: &common.InitEnvironment{
			Logger:      r.Logger,
			FileSystems: map[string]fsext.Fs{"file": r.FS},
			CWD:         r.CWD,
			Options:     r.Options,
		},
	}
	mods := getInternalJSModules()
	for name, mod := range r.Modules {
		mods[name] = mod
	}
	ms := modules.NewModuleSystem(mvu, mods)
	if err := ms.Install(); err != nil {
		return nil, err
	}

	return &VU{Runtime: rt, moduleVU: mvu, modules: ms}, nil
}

// ExposeModule makes every export of the module with the given specifier a
// global of the runtime.
func (vu *VU) ExposeModule(specifier string) error {
	exports, err := vu.modules.Require(specifier)
	if err != nil {
		return err
	}
	for _, k := range exports.Keys() {
		if k == consts.DefaultFn || k == "__esModule" {
			continue
		}
		if err := vu.Runtime.Set(k, exports.Get(k)); err != nil {
			return err
		}
	}
	return nil
}

// RunProgram runs p as a classic script.
func (vu *VU) RunProgram(p *goja.Program) (goja.Value, error) {
	return vu.run(func() (goja.Value, error) {
		return vu.Runtime.RunProgram(p)
	})
}

// RunModule runs p, compiled with [CompileCommonJS], with fresh module and
// exports objects. When the script exports a default function, it is called
// afterwards.
func (vu *VU) RunModule(p *goja.Program) (goja.Value, error) {
	return vu.run(func() (goja.Value, error) {
		rt := vu.Runtime
		v, err := rt.RunProgram(p)
		if err != nil {
			return nil, err
		}
		wrapper, ok := goja.AssertFunction(v)
		if !ok {
			return nil, errors.New("the compiled program is not a CommonJS wrapper")
		}

		module := rt.NewObject()
		exports := rt.NewObject()
		if err = module.Set("exports", exports); err != nil {
			return nil, err
		}
		if _, err = wrapper(goja.Undefined(), module, exports); err != nil {
			return nil, err
		}

		exported := module.Get("exports")
		if common.IsNullish(exported) {
			return goja.Undefined(), nil
		}
		def, ok := goja.AssertFunction(exported.ToObject(rt).Get(consts.DefaultFn))
		if !ok {
			return goja.Undefined(), nil
		}
		return def(goja.Undefined())
	})
}

func (vu *VU) run(fn func() (goja.Value, error)) (v goja.Value, err error) {
	ctx := vu.moduleVU.ctx
	if err = ctx.Err(); err != nil {
		return nil, errext.WithExitCodeIfNone(err, exitcodes.ExternalAbort)
	}
	stop := context.AfterFunc(ctx, func() {
		vu.Runtime.Interrupt(ctx.Err())
	})
	defer stop()

	defer func() {
		if r := recover(); r != nil {
			err = errext.WithExitCodeIfNone(
				fmt.Errorf("a panic occurred during script execution: %v\n%s", r, debug.Stack()),
				exitcodes.GoPanic,
			)
		}
	}()

	v, err = fn()
	return v, wrapRunError(err)
}

func wrapRunError(err error) error {
	if err == nil {
		return nil
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cause, ok := interrupted.Value().(error); ok {
			return errext.WithExitCodeIfNone(fmt.Errorf("script interrupted: %w", cause), exitcodes.ExternalAbort)
		}
		return errext.WithExitCodeIfNone(err, exitcodes.ExternalAbort)
	}
	var exception *goja.Exception
	if errors.As(err, &exception) {
		return newScriptException(exception)
	}
	return errext.WithExitCodeIfNone(err, exitcodes.ScriptException)
}

// CompileCommonJS compiles src wrapped in a function of (module, exports), so
// that top level declarations stay local to the script. The wrapper is kept
// on the first line to leave line numbers untouched.
func CompileCommonJS(name, src string) (*goja.Program, error) {
	p, err := goja.Compile(name, "(function(module, exports){"+src+"\n})", false)
	if err != nil {
		return nil, errext.WithExitCodeIfNone(err, exitcodes.ScriptException)
	}
	return p, nil
}

// RunFile reads filename, relative to the CWD of r, and runs it.
func (r *Runner) RunFile(ctx context.Context, filename string) error {
	path := fsext.Abs(r.CWD.Path, filename)
	src, err := fsext.ReadFile(r.FS, path)
	if err != nil {
		return fmt.Errorf("couldn't read script %q: %w", filename, err)
	}
	return r.RunSource(ctx, path, string(src))
}

// RunSource runs src as the script called name on a new VU.
func (r *Runner) RunSource(ctx context.Context, name, src string) error {
	p, err := CompileCommonJS(name, src)
	if err != nil {
		return err
	}
	vu, err := r.NewVU(ctx)
	if err != nil {
		return err
	}

	r.Logger.WithField("script", name).Debug("Running script")
	if _, err = vu.RunModule(p); err != nil {
		return err
	}
	r.Logger.WithField("script", name).Debug("Script finished")
	return nil
}
