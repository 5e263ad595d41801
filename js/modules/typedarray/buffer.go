package typedarray

import (
	"github.com/dop251/goja"

	"go.k6.io/typedview/js/common"
	"go.k6.io/typedview/lib/typedarray"
)

// bufferObject is the handler of the JS object standing for a buffer. Its
// properties are computed from the buffer on every read.
type bufferObject struct {
	mi  *ModuleInstance
	buf *typedarray.ResizableBuffer
}

var _ goja.DynamicObject = &bufferObject{}

//nolint:gochecknoglobals
var bufferKeys = []string{"byteLength", "maxByteLength", "resizable", "detached", "viewCount"}

func (b *bufferObject) Get(key string) goja.Value {
	rt := b.mi.vu.Runtime()
	switch key {
	case "byteLength":
		return rt.ToValue(b.buf.ByteLength())
	case "maxByteLength":
		return rt.ToValue(b.buf.MaxByteLength())
	case "resizable":
		return rt.ToValue(b.buf.Resizable())
	case "detached":
		return rt.ToValue(b.buf.Detached())
	case "viewCount":
		return rt.ToValue(b.buf.ViewCount())
	default:
		return nil
	}
}

func (b *bufferObject) Set(string, goja.Value) bool { return false }

func (b *bufferObject) Has(key string) bool {
	for _, k := range bufferKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (b *bufferObject) Delete(string) bool { return false }

func (b *bufferObject) Keys() []string {
	return bufferKeys
}

func (mi *ModuleInstance) newBufferObject(buf *typedarray.ResizableBuffer) *goja.Object {
	obj := mi.vu.Runtime().NewDynamicObject(&bufferObject{mi: mi, buf: buf})
	if err := obj.SetPrototype(mi.bufferProto); err != nil {
		mi.throw(err)
	}
	return obj
}

func (mi *ModuleInstance) toBuffer(v goja.Value, method string) *bufferObject {
	if obj, ok := v.(*goja.Object); ok {
		if b, ok := obj.Export().(*bufferObject); ok {
			return b
		}
	}
	mi.typeError("%s: receiver is not a buffer", method)
	return nil
}

func (mi *ModuleInstance) newBufferPrototype() *goja.Object {
	rt := mi.vu.Runtime()
	proto := rt.NewObject()
	methods := map[string]func(goja.FunctionCall) goja.Value{
		"resize": func(call goja.FunctionCall) goja.Value {
			b := mi.toBuffer(call.This, "ResizableBuffer.prototype.resize")
			if err := b.buf.ResizeValue(mi.fromJS(call.Argument(0))); err != nil {
				mi.throw(err)
			}
			return goja.Undefined()
		},
		"detach": func(call goja.FunctionCall) goja.Value {
			mi.toBuffer(call.This, "ResizableBuffer.prototype.detach").buf.Detach()
			return goja.Undefined()
		},
		"toString": func(call goja.FunctionCall) goja.Value {
			b := mi.toBuffer(call.This, "ResizableBuffer.prototype.toString")
			if b.buf.Resizable() {
				return rt.ToValue("[object ResizableBuffer]")
			}
			return rt.ToValue("[object FixedBuffer]")
		},
	}
	for name, fn := range methods {
		if err := proto.Set(name, fn); err != nil {
			mi.throw(err)
		}
	}
	return proto
}

// newBufferConstructors returns the ResizableBuffer and FixedBuffer
// constructors.
//
// new ResizableBuffer(length, { maxByteLength }) converts length before it
// reads the options. Without a maxByteLength the configured default is used,
// raised to length when length exceeds it.
func (mi *ModuleInstance) newBufferConstructors() (*goja.Object, *goja.Object) {
	rt := mi.vu.Runtime()

	resizable := func(call goja.ConstructorCall) *goja.Object {
		n, err := typedarray.ToIndex(mi.coercer, mi.fromJS(call.Argument(0)))
		if err != nil {
			mi.throw(err)
		}

		maxLength := max(n, int(mi.options.MaxByteLength.Int64))
		if opts := call.Argument(1); !common.IsNullish(opts) {
			maxValue, err := mi.fromJSObject(opts).Get(typedarray.Key("maxByteLength"))
			if err != nil {
				mi.throw(err)
			}
			if !typedarray.IsUndefined(maxValue) {
				if maxLength, err = typedarray.ToIndex(mi.coercer, maxValue); err != nil {
					mi.throw(err)
				}
			}
		}

		buf, err := typedarray.NewResizableBuffer(n, maxLength, mi.bufferOptions()...)
		if err != nil {
			mi.throw(err)
		}
		return mi.newBufferObject(buf)
	}

	fixed := func(call goja.ConstructorCall) *goja.Object {
		n, err := typedarray.ToIndex(mi.coercer, mi.fromJS(call.Argument(0)))
		if err != nil {
			mi.throw(err)
		}
		buf, err := typedarray.NewFixedBuffer(n, mi.bufferOptions()...)
		if err != nil {
			mi.throw(err)
		}
		return mi.newBufferObject(buf)
	}

	return rt.ToValue(resizable).ToObject(rt), rt.ToValue(fixed).ToObject(rt)
}

func (mi *ModuleInstance) bufferOptions() []typedarray.BufferOption {
	opts := []typedarray.BufferOption{typedarray.WithCoercer(mi.coercer)}
	if mi.logger != nil && mi.options.LogResizes.Bool {
		opts = append(opts, typedarray.WithLogger(mi.logger))
	}
	return opts
}

// fromJSObject converts v to an engine Object the way ToObject does for the
// values an options bag can be.
func (mi *ModuleInstance) fromJSObject(v goja.Value) typedarray.Object {
	if obj, ok := mi.fromJS(v).(typedarray.Object); ok {
		return obj
	}
	return typedarray.ArrayLike(nil)
}
