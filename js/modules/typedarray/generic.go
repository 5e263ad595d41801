package typedarray

import (
	"github.com/dop251/goja"
)

// arrayEvery, arraySome and arrayForEach run the generic Array algorithms
// against a view. Unlike the view's own methods they never throw because the
// view is out of bounds: such a view simply has no elements.

func (mi *ModuleInstance) arrayEvery(view, fn, thisArg goja.Value) bool {
	a := mi.toView(view, "arrayEvery")
	all, err := a.view.ArrayEvery(mi.callback(fn, thisArg, view))
	if err != nil {
		mi.throw(err)
	}
	return all
}

func (mi *ModuleInstance) arraySome(view, fn, thisArg goja.Value) bool {
	a := mi.toView(view, "arraySome")
	found, err := a.view.ArraySome(mi.callback(fn, thisArg, view))
	if err != nil {
		mi.throw(err)
	}
	return found
}

func (mi *ModuleInstance) arrayForEach(view, fn, thisArg goja.Value) {
	a := mi.toView(view, "arrayForEach")
	if err := a.view.ArrayForEach(mi.callback(fn, thisArg, view)); err != nil {
		mi.throw(err)
	}
}
