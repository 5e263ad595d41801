// Package conformance runs test262 style fixtures against the typedview
// module. A fixture is a script with YAML front matter describing the includes
// it needs, the modes it runs in and, for negative fixtures, the error it is
// expected to throw.
package conformance

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"path"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"go.k6.io/typedview/errext"
	"go.k6.io/typedview/js"
	"go.k6.io/typedview/lib"
	"go.k6.io/typedview/lib/fsext"
)

//go:embed harness/*.js
var harnessFS embed.FS

// DefaultTimeout bounds a single run of a fixture.
const DefaultTimeout = 10 * time.Second

// DefaultBlockedFeatures lists the features whose fixtures are skipped.
//
//nolint:gochecknoglobals
var DefaultBlockedFeatures = []string{
	"Atomics",
	"Atomics.waitAsync",
	"SharedArrayBuffer",
	"Float16Array",
	"Temporal",
	"Intl",
	"regexp-unicode-property-escapes",
}

// defaultIncludes run before every fixture that isn't raw.
//
//nolint:gochecknoglobals
var defaultIncludes = []string{"assert.js", "sta.js"}

// Runner runs fixtures read from FS.
type Runner struct {
	Logger  logrus.FieldLogger
	FS      fsext.Fs
	Options lib.Options

	Timeout         time.Duration
	Concurrency     int
	BlockedFeatures []string

	harnessMu sync.Mutex
	harness   map[string]*goja.Program
}

// NewRunner returns a Runner with the default timeout, blocked features and
// one worker per CPU.
func NewRunner(logger logrus.FieldLogger, fs fsext.Fs, opts lib.Options) *Runner {
	return &Runner{
		Logger:          logger,
		FS:              fs,
		Options:         opts,
		Timeout:         DefaultTimeout,
		Concurrency:     runtime.GOMAXPROCS(0),
		BlockedFeatures: DefaultBlockedFeatures,
		harness:         make(map[string]*goja.Program),
	}
}

// RunDir runs every .js file under dir, except those in harness directories.
// The report lists the results sorted by fixture name.
func (r *Runner) RunDir(ctx context.Context, dir string) (*Report, error) {
	files, err := fsext.Glob(r.FS, dir, ".js")
	if err != nil {
		return nil, fmt.Errorf("couldn't list fixtures in %q: %w", dir, err)
	}
	files = slices.DeleteFunc(files, func(name string) bool {
		return path.Base(path.Dir(name)) == "harness"
	})

	start := time.Now()
	results := make([][]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Concurrency, 1))
	for i, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.RunFile(gctx, name)
			return nil
		})
	}
	err = g.Wait()

	report := &Report{Duration: time.Since(start)}
	for _, rs := range results {
		report.Results = append(report.Results, rs...)
	}
	if err != nil {
		return report, err
	}
	return report, ctx.Err()
}

// RunFile runs a single fixture in every mode its flags allow. Raw and
// noStrict fixtures run sloppy only, onlyStrict fixtures strict only and the
// rest in both modes.
func (r *Runner) RunFile(ctx context.Context, name string) []Result {
	meta, src, err := ParseFile(r.FS, name)
	if err != nil {
		return []Result{{Name: name, Status: Failed, Reason: err.Error()}}
	}

	for _, feature := range meta.Features {
		if slices.Contains(r.BlockedFeatures, feature) {
			return []Result{{Name: name, Status: Skipped, Reason: "blocked feature " + feature}}
		}
	}

	var modes []bool
	switch {
	case meta.HasFlag("raw"), meta.HasFlag("noStrict"):
		modes = []bool{false}
	case meta.HasFlag("onlyStrict"):
		modes = []bool{true}
	default:
		modes = []bool{false, true}
	}

	results := make([]Result, 0, len(modes))
	for _, strict := range modes {
		res := r.runFixture(ctx, name, src, meta, strict)
		r.Logger.WithFields(logrus.Fields{
			"fixture": name,
			"strict":  strict,
			"status":  res.Status,
		}).Debug(res.Reason)
		results = append(results, res)
	}
	return results
}

func (r *Runner) runFixture(ctx context.Context, name, src string, meta *Meta, strict bool) Result {
	start := time.Now()
	res := Result{Name: name, Strict: strict}
	defer func() { res.Duration = time.Since(start) }()

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	phase, err := r.execute(ctx, name, src, meta, strict)
	res.Status, res.Reason = judge(meta, phase, err)
	return res
}

// execute runs the fixture and returns the phase of the error it failed with.
func (r *Runner) execute(ctx context.Context, name, src string, meta *Meta, strict bool) (string, error) {
	cwd := &url.URL{Scheme: "file", Path: path.Dir(name)}
	vu, err := js.New(r.Logger, r.FS, cwd, r.Options).NewVU(ctx)
	if err != nil {
		return "setup", err
	}
	if err = vu.ExposeModule("typedview"); err != nil {
		return "setup", err
	}
	logger := r.Logger.WithField("fixture", name)
	if err = vu.Runtime.Set("print", func(msg string) { logger.Info(msg) }); err != nil {
		return "setup", err
	}

	if !meta.HasFlag("raw") {
		includes := append(slices.Clone(defaultIncludes), meta.Includes...)
		for _, include := range includes {
			p, err := r.harnessProgram(path.Dir(name), include)
			if err != nil {
				return "setup", err
			}
			if _, err = vu.RunProgram(p); err != nil {
				return "setup", fmt.Errorf("running %s: %w", include, err)
			}
		}
	}

	if strict {
		src = "'use strict';\n" + src
	}
	p, err := goja.Compile(name, src, false)
	if err != nil {
		return "parse", err
	}
	_, err = vu.RunProgram(p)
	return "runtime", err
}

// harnessProgram compiles an include, looking in the embedded harness first
// and in the harness directory next to the fixture after that.
func (r *Runner) harnessProgram(dir, include string) (*goja.Program, error) {
	b, err := harnessFS.ReadFile(path.Join("harness", include))
	key := include
	if err != nil {
		key = path.Join(dir, "harness", include)
		if b, err = fsext.ReadFile(r.FS, key); err != nil {
			return nil, fmt.Errorf("unknown include %q: %w", include, err)
		}
	}

	r.harnessMu.Lock()
	defer r.harnessMu.Unlock()
	if p, ok := r.harness[key]; ok {
		return p, nil
	}
	p, err := goja.Compile(include, string(b), false)
	if err != nil {
		return nil, err
	}
	r.harness[key] = p
	return p, nil
}

func judge(meta *Meta, phase string, err error) (Status, string) {
	if phase == "setup" {
		return Failed, err.Error()
	}

	expected := meta.Negative
	if expected.Type == "" {
		if err == nil {
			return Passed, "passed"
		}
		msg, _ := errext.Format(err)
		return Failed, msg
	}

	if err == nil {
		return Failed, fmt.Sprintf("expected a %s to be thrown during %s", expected.Type, expected.Phase)
	}
	if phase != expected.Phase {
		return Failed, fmt.Sprintf("error %v happened at the wrong phase (expected %s)", err, expected.Phase)
	}
	if errType := errorType(err); errType != expected.Type {
		return Failed, fmt.Sprintf("unexpected error type (%s), expected (%s): %v", errType, expected.Type, err)
	}
	return Passed, "threw " + expected.Type
}

// errorType returns the name of the constructor of the thrown value.
func errorType(err error) (name string) {
	var syntaxErr *goja.CompilerSyntaxError
	if errors.As(err, &syntaxErr) {
		return "SyntaxError"
	}
	var refErr *goja.CompilerReferenceError
	if errors.As(err, &refErr) {
		return "ReferenceError"
	}

	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return ""
	}
	obj, ok := ex.Value().(*goja.Object)
	if !ok {
		return ""
	}
	defer func() {
		if recover() != nil {
			name = ""
		}
	}()
	ctor, ok := obj.Get("constructor").(*goja.Object)
	if !ok {
		return ""
	}
	return ctor.Get("name").String()
}
