// Package typedarray provides the "typedview" module, which exposes resizable
// buffers and typed array views over them to scripts.
//
// Views are goja dynamic arrays: indexed reads and writes go through the
// engine on every access, so a view shrinks, grows and goes out of bounds
// together with its buffer.
package typedarray

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"

	"go.k6.io/typedview/js/common"
	"go.k6.io/typedview/js/modules"
	"go.k6.io/typedview/lib"
	"go.k6.io/typedview/lib/typedarray"
)

type (
	// RootModule is the global module instance that will create instances of our
	// module for each VU.
	RootModule struct{}

	// ModuleInstance represents an instance of the typedview module for a single VU.
	ModuleInstance struct {
		vu      modules.VU
		options lib.Options
		logger  logrus.FieldLogger
		coercer *coercer

		symbols   map[*goja.Symbol]*typedarray.Symbol
		jsSymbols map[*typedarray.Symbol]*goja.Symbol

		bufferProto     *goja.Object
		typedArrayProto *goja.Object
		protos          map[typedarray.Kind]*goja.Object
		constructors    map[typedarray.Kind]*goja.Object
		bufferCtor      *goja.Object
		fixedBufferCtor *goja.Object
	}
)

var (
	_ modules.Module   = &RootModule{}
	_ modules.Instance = &ModuleInstance{}
)

// New returns a pointer to a new [RootModule] instance.
func New() *RootModule {
	return &RootModule{}
}

// NewModuleInstance implements the modules.Module interface and returns a new
// instance of our module for the given VU.
func (rm *RootModule) NewModuleInstance(vu modules.VU) modules.Instance {
	mi := &ModuleInstance{
		vu:           vu,
		options:      lib.DefaultOptions(),
		symbols:      make(map[*goja.Symbol]*typedarray.Symbol),
		jsSymbols:    make(map[*typedarray.Symbol]*goja.Symbol),
		protos:       make(map[typedarray.Kind]*goja.Object, len(typedarray.Kinds)),
		constructors: make(map[typedarray.Kind]*goja.Object, len(typedarray.Kinds)),
	}
	if initEnv := vu.InitEnv(); initEnv != nil {
		mi.options = mi.options.Apply(initEnv.Options)
		if initEnv.Logger != nil {
			mi.logger = initEnv.Logger.WithField("source", "typedview")
		}
	}

	mi.coercer = newCoercer(mi)
	mi.bufferProto = mi.newBufferPrototype()
	mi.bufferCtor, mi.fixedBufferCtor = mi.newBufferConstructors()
	mi.typedArrayProto = mi.newTypedArrayPrototype()
	for _, kind := range typedarray.Kinds {
		mi.constructors[kind] = mi.newViewConstructor(kind)
	}
	return mi
}

// Exports implements the modules.Module interface and returns the exports of
// our module.
func (mi *ModuleInstance) Exports() modules.Exports {
	named := map[string]interface{}{
		"ResizableBuffer": mi.bufferCtor,
		"FixedBuffer":     mi.fixedBufferCtor,
		"evaluate":        mi.evaluate,
		"arrayEvery":      mi.arrayEvery,
		"arraySome":       mi.arraySome,
		"arrayForEach":    mi.arrayForEach,
	}
	for kind, ctor := range mi.constructors {
		named[kind.String()] = ctor
	}
	return modules.Exports{Named: named}
}

func (mi *ModuleInstance) throw(err error) {
	common.Throw(mi.vu.Runtime(), err)
}

func (mi *ModuleInstance) typeError(format string, args ...interface{}) {
	mi.throw(&typedarray.Error{Kind: typedarray.TypeError, Message: fmt.Sprintf(format, args...)})
}

// evaluate exposes the bounds evaluation of a view as { outOfBounds, length }.
func (mi *ModuleInstance) evaluate(v goja.Value) *goja.Object {
	view := mi.toView(v, "evaluate")
	state := typedarray.Evaluate(view.view)

	rt := mi.vu.Runtime()
	obj := rt.NewObject()
	_ = obj.Set("outOfBounds", state.OutOfBounds)
	_ = obj.Set("length", state.Length)
	return obj
}
