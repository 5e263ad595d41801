package typedarray

import (
	"github.com/dop251/goja"

	"go.k6.io/typedview/lib/typedarray"
)

// viewArray is the handler of the JS object standing for a view. Every call
// goes to the engine, which derives the current length from the buffer.
type viewArray struct {
	mi     *ModuleInstance
	view   *typedarray.View
	buffer *goja.Object
}

var _ goja.DynamicArray = &viewArray{}

func (a *viewArray) Len() int {
	return a.view.Length()
}

func (a *viewArray) Get(idx int) goja.Value {
	return a.mi.toJS(a.view.Get(idx))
}

// Set converts val even when idx is not a valid index; the write itself is
// dropped silently in that case.
func (a *viewArray) Set(idx int, val goja.Value) bool {
	if err := a.view.Set(idx, a.mi.fromJS(val)); err != nil {
		a.mi.throw(err)
	}
	return true
}

// SetLen refuses every change: the length of a view is not writable.
func (a *viewArray) SetLen(int) bool {
	return false
}

// bufferObject returns the JS object of the view's buffer, creating it the
// first time it is asked for.
func (a *viewArray) bufferObject() *goja.Object {
	if a.buffer == nil {
		a.buffer = a.mi.newBufferObject(a.view.Buffer())
	}
	return a.buffer
}

// newViewObject wraps view. buffer is the JS object of its buffer if one
// already exists.
func (mi *ModuleInstance) newViewObject(view *typedarray.View, buffer *goja.Object) *goja.Object {
	obj := mi.vu.Runtime().NewDynamicArray(&viewArray{mi: mi, view: view, buffer: buffer})
	if err := obj.SetPrototype(mi.protos[view.Kind()]); err != nil {
		mi.throw(err)
	}
	return obj
}

// asView returns the view handler behind v, if v is a view object.
func asView(v goja.Value) (*viewArray, bool) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, false
	}
	a, ok := obj.Export().(*viewArray)
	return a, ok
}

func (mi *ModuleInstance) toView(v goja.Value, method string) *viewArray {
	a, ok := asView(v)
	if !ok {
		mi.typeError("%s: argument is not a typed array", method)
	}
	return a
}

// newViewConstructor returns the constructor of kind. It accepts, like the
// built-in typed array constructors:
//
//	new Kind(buffer, byteOffset?, length?)
//	new Kind(typedArray)
//	new Kind(arrayLike)
//	new Kind(length)
func (mi *ModuleInstance) newViewConstructor(kind typedarray.Kind) *goja.Object {
	rt := mi.vu.Runtime()

	construct := func(call goja.ConstructorCall) *goja.Object {
		first := call.Argument(0)
		obj, isObject := first.(*goja.Object)
		if !isObject {
			n, err := typedarray.ToIndex(mi.coercer, mi.fromJS(first))
			if err != nil {
				mi.throw(err)
			}
			view, err := typedarray.NewArray(kind, n, mi.bufferOptions()...)
			if err != nil {
				mi.throw(err)
			}
			return mi.newViewObject(view, nil)
		}

		var (
			view   *typedarray.View
			buffer *goja.Object
			err    error
		)
		switch handler := obj.Export().(type) {
		case *bufferObject:
			buffer = obj
			view, err = typedarray.NewViewFromValues(
				handler.buf, kind, mi.fromJS(call.Argument(1)), mi.fromJS(call.Argument(2)),
			)
		case *viewArray:
			view, err = typedarray.NewViewFromView(kind, handler.view)
		default:
			view, err = typedarray.NewViewFromArrayLike(kind, mi.fromJSObject(obj), mi.bufferOptions()...)
		}
		if err != nil {
			mi.throw(err)
		}
		return mi.newViewObject(view, buffer)
	}

	ctor := rt.ToValue(construct).ToObject(rt)
	proto := rt.NewObject()
	if err := proto.SetPrototype(mi.typedArrayProto); err != nil {
		mi.throw(err)
	}
	for _, target := range []*goja.Object{ctor, proto} {
		if err := target.DefineDataProperty(
			"BYTES_PER_ELEMENT", rt.ToValue(kind.Size()), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE,
		); err != nil {
			mi.throw(err)
		}
	}
	if err := proto.DefineDataProperty("constructor", ctor, goja.FLAG_TRUE, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
		mi.throw(err)
	}
	mi.protos[kind] = proto
	return ctor
}
