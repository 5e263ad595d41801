package typedarray

import (
	"github.com/dop251/goja"

	"go.k6.io/typedview/lib/typedarray"
)

type (
	viewMethod func(a *viewArray, call goja.FunctionCall) goja.Value
	viewGetter func(a *viewArray) goja.Value
)

func (mi *ModuleInstance) thisView(this goja.Value, method string) *viewArray {
	a, ok := asView(this)
	if !ok {
		mi.typeError("%s: receiver is not a typed array", method)
	}
	return a
}

// newTypedArrayPrototype returns the prototype shared by the prototypes of
// every kind.
func (mi *ModuleInstance) newTypedArrayPrototype() *goja.Object {
	rt := mi.vu.Runtime()
	proto := rt.NewObject()

	for name, fn := range mi.viewMethods() {
		qualified := "%TypedArray%.prototype." + name
		if err := proto.Set(name, func(call goja.FunctionCall) goja.Value {
			return fn(mi.thisView(call.This, qualified), call)
		}); err != nil {
			mi.throw(err)
		}
	}

	for name, get := range mi.viewGetters() {
		qualified := "get %TypedArray%.prototype." + name
		getter := rt.ToValue(func(call goja.FunctionCall) goja.Value {
			return get(mi.thisView(call.This, qualified))
		})
		if err := proto.DefineAccessorProperty(name, getter, nil, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
			mi.throw(err)
		}
	}

	tag := rt.ToValue(func(call goja.FunctionCall) goja.Value {
		a, ok := asView(call.This)
		if !ok {
			return goja.Undefined()
		}
		return rt.ToValue(a.view.Kind().String())
	})
	if err := proto.DefineAccessorPropertySymbol(
		goja.SymToStringTag, tag, nil, goja.FLAG_FALSE, goja.FLAG_TRUE,
	); err != nil {
		mi.throw(err)
	}
	if err := proto.SetSymbol(goja.SymIterator, proto.Get("values")); err != nil {
		mi.throw(err)
	}
	return proto
}

func (mi *ModuleInstance) viewGetters() map[string]viewGetter {
	rt := mi.vu.Runtime()
	return map[string]viewGetter{
		"length": func(a *viewArray) goja.Value {
			return rt.ToValue(a.view.Length())
		},
		"byteLength": func(a *viewArray) goja.Value {
			return rt.ToValue(a.view.ByteLength())
		},
		"byteOffset": func(a *viewArray) goja.Value {
			return rt.ToValue(a.view.ByteOffset())
		},
		"buffer": func(a *viewArray) goja.Value {
			return a.bufferObject()
		},
		"lengthTracking": func(a *viewArray) goja.Value {
			return rt.ToValue(a.view.IsLengthTracking())
		},
		"outOfBounds": func(a *viewArray) goja.Value {
			return rt.ToValue(typedarray.Evaluate(a.view).OutOfBounds)
		},
	}
}

//nolint:funlen
func (mi *ModuleInstance) viewMethods() map[string]viewMethod {
	rt := mi.vu.Runtime()
	arg := func(call goja.FunctionCall, i int) typedarray.Value {
		return mi.fromJS(call.Argument(i))
	}

	return map[string]viewMethod{
		"fill": func(a *viewArray, call goja.FunctionCall) goja.Value {
			if err := a.view.Fill(arg(call, 0), arg(call, 1), arg(call, 2)); err != nil {
				mi.throw(err)
			}
			return call.This
		},
		"copyWithin": func(a *viewArray, call goja.FunctionCall) goja.Value {
			if err := a.view.CopyWithin(arg(call, 0), arg(call, 1), arg(call, 2)); err != nil {
				mi.throw(err)
			}
			return call.This
		},
		"reverse": func(a *viewArray, call goja.FunctionCall) goja.Value {
			if err := a.view.Reverse(); err != nil {
				mi.throw(err)
			}
			return call.This
		},
		"set": func(a *viewArray, call goja.FunctionCall) goja.Value {
			var err error
			if src, ok := asView(call.Argument(0)); ok {
				err = a.view.SetFromView(src.view, arg(call, 1))
			} else {
				err = a.view.SetFrom(arg(call, 0), arg(call, 1))
			}
			if err != nil {
				mi.throw(err)
			}
			return goja.Undefined()
		},
		"includes": func(a *viewArray, call goja.FunctionCall) goja.Value {
			found, err := a.view.Includes(arg(call, 0), arg(call, 1))
			if err != nil {
				mi.throw(err)
			}
			return rt.ToValue(found)
		},
		"indexOf": func(a *viewArray, call goja.FunctionCall) goja.Value {
			idx, err := a.view.IndexOf(arg(call, 0), arg(call, 1))
			if err != nil {
				mi.throw(err)
			}
			return rt.ToValue(idx)
		},
		"lastIndexOf": func(a *viewArray, call goja.FunctionCall) goja.Value {
			var fromIndex []typedarray.Value
			if len(call.Arguments) > 1 {
				fromIndex = append(fromIndex, arg(call, 1))
			}
			idx, err := a.view.LastIndexOf(arg(call, 0), fromIndex...)
			if err != nil {
				mi.throw(err)
			}
			return rt.ToValue(idx)
		},
		"at": func(a *viewArray, call goja.FunctionCall) goja.Value {
			v, err := a.view.At(arg(call, 0))
			if err != nil {
				mi.throw(err)
			}
			return mi.toJS(v)
		},
		"join": func(a *viewArray, call goja.FunctionCall) goja.Value {
			s, err := a.view.Join(arg(call, 0))
			if err != nil {
				mi.throw(err)
			}
			return rt.ToValue(s)
		},
		"toString": func(a *viewArray, _ goja.FunctionCall) goja.Value {
			s, err := a.view.Join(typedarray.Undefined)
			if err != nil {
				mi.throw(err)
			}
			return rt.ToValue(s)
		},
		"every": func(a *viewArray, call goja.FunctionCall) goja.Value {
			all, err := a.view.Every(mi.callback(call.Argument(0), call.Argument(1), call.This))
			if err != nil {
				mi.throw(err)
			}
			return rt.ToValue(all)
		},
		"some": func(a *viewArray, call goja.FunctionCall) goja.Value {
			found, err := a.view.Some(mi.callback(call.Argument(0), call.Argument(1), call.This))
			if err != nil {
				mi.throw(err)
			}
			return rt.ToValue(found)
		},
		"forEach": func(a *viewArray, call goja.FunctionCall) goja.Value {
			if err := a.view.ForEach(mi.callback(call.Argument(0), call.Argument(1), call.This)); err != nil {
				mi.throw(err)
			}
			return goja.Undefined()
		},
		"find": func(a *viewArray, call goja.FunctionCall) goja.Value {
			v, err := a.view.Find(mi.callback(call.Argument(0), call.Argument(1), call.This))
			if err != nil {
				mi.throw(err)
			}
			return mi.toJS(v)
		},
		"findIndex": func(a *viewArray, call goja.FunctionCall) goja.Value {
			idx, err := a.view.FindIndex(mi.callback(call.Argument(0), call.Argument(1), call.This))
			if err != nil {
				mi.throw(err)
			}
			return rt.ToValue(idx)
		},
		"findLast": func(a *viewArray, call goja.FunctionCall) goja.Value {
			v, err := a.view.FindLast(mi.callback(call.Argument(0), call.Argument(1), call.This))
			if err != nil {
				mi.throw(err)
			}
			return mi.toJS(v)
		},
		"findLastIndex": func(a *viewArray, call goja.FunctionCall) goja.Value {
			idx, err := a.view.FindLastIndex(mi.callback(call.Argument(0), call.Argument(1), call.This))
			if err != nil {
				mi.throw(err)
			}
			return rt.ToValue(idx)
		},
		"map": func(a *viewArray, call goja.FunctionCall) goja.Value {
			result, err := a.view.Map(mi.callback(call.Argument(0), call.Argument(1), call.This))
			if err != nil {
				mi.throw(err)
			}
			return mi.newViewObject(result, nil)
		},
		"filter": func(a *viewArray, call goja.FunctionCall) goja.Value {
			result, err := a.view.Filter(mi.callback(call.Argument(0), call.Argument(1), call.This))
			if err != nil {
				mi.throw(err)
			}
			return mi.newViewObject(result, nil)
		},
		"reduce": func(a *viewArray, call goja.FunctionCall) goja.Value {
			v, err := a.view.Reduce(mi.reducer(call.Argument(0), call.This), mi.initialValue(call)...)
			if err != nil {
				mi.throw(err)
			}
			return mi.toJS(v)
		},
		"reduceRight": func(a *viewArray, call goja.FunctionCall) goja.Value {
			v, err := a.view.ReduceRight(mi.reducer(call.Argument(0), call.This), mi.initialValue(call)...)
			if err != nil {
				mi.throw(err)
			}
			return mi.toJS(v)
		},
		"subarray": func(a *viewArray, call goja.FunctionCall) goja.Value {
			sub, err := a.view.Subarray(arg(call, 0), arg(call, 1))
			if err != nil {
				mi.throw(err)
			}
			return mi.newViewObject(sub, a.bufferObject())
		},
		"slice": func(a *viewArray, call goja.FunctionCall) goja.Value {
			result, err := a.view.Slice(arg(call, 0), arg(call, 1))
			if err != nil {
				mi.throw(err)
			}
			return mi.newViewObject(result, nil)
		},
		"values": func(a *viewArray, _ goja.FunctionCall) goja.Value {
			return mi.iterator(a.view.Values())
		},
		"keys": func(a *viewArray, _ goja.FunctionCall) goja.Value {
			return mi.iterator(a.view.Keys())
		},
		"entries": func(a *viewArray, _ goja.FunctionCall) goja.Value {
			return mi.iterator(a.view.Entries())
		},
	}
}

// callback adapts a callbackfn and its thisArg. The callback is called with
// (value, index, receiver). It returns nil when fnv is not callable, which the
// engine reports after it has validated the view.
func (mi *ModuleInstance) callback(fnv, thisArg, receiver goja.Value) typedarray.Callback {
	fn, ok := goja.AssertFunction(fnv)
	if !ok {
		return nil
	}
	if thisArg == nil {
		thisArg = goja.Undefined()
	}
	rt := mi.vu.Runtime()
	return func(value typedarray.Value, index int) (typedarray.Value, error) {
		result, err := fn(thisArg, mi.toJS(value), rt.ToValue(index), receiver)
		if err != nil {
			return nil, err
		}
		return mi.fromJS(result), nil
	}
}

func (mi *ModuleInstance) reducer(fnv, receiver goja.Value) typedarray.Reducer {
	fn, ok := goja.AssertFunction(fnv)
	if !ok {
		return nil
	}
	rt := mi.vu.Runtime()
	return func(accumulator, value typedarray.Value, index int) (typedarray.Value, error) {
		result, err := fn(goja.Undefined(), mi.toJS(accumulator), mi.toJS(value), rt.ToValue(index), receiver)
		if err != nil {
			return nil, err
		}
		return mi.fromJS(result), nil
	}
}

func (mi *ModuleInstance) initialValue(call goja.FunctionCall) []typedarray.Value {
	if len(call.Arguments) < 2 {
		return nil
	}
	return []typedarray.Value{mi.fromJS(call.Arguments[1])}
}

// iterator wraps an engine iterator in a JS iterator object.
func (mi *ModuleInstance) iterator(it *typedarray.Iterator, err error) goja.Value {
	if err != nil {
		mi.throw(err)
	}
	rt := mi.vu.Runtime()
	obj := rt.NewObject()
	if err := obj.Set("next", func(goja.FunctionCall) goja.Value {
		value, done, err := it.Next()
		if err != nil {
			mi.throw(err)
		}
		result := rt.NewObject()
		_ = result.Set("value", mi.toJS(value))
		_ = result.Set("done", done)
		return result
	}); err != nil {
		mi.throw(err)
	}
	if err := obj.SetSymbol(goja.SymIterator, func(call goja.FunctionCall) goja.Value {
		return call.This
	}); err != nil {
		mi.throw(err)
	}
	return obj
}
