package typedarray

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/dop251/goja"

	"go.k6.io/typedview/js/common"
	"go.k6.io/typedview/lib/typedarray"
)

// jsObject adapts a goja object to the engine's Object. Property reads run
// getters and proxy traps, so they may throw.
type jsObject struct {
	mi  *ModuleInstance
	obj *goja.Object
}

// jsFunction is a callable jsObject.
type jsFunction struct {
	*jsObject
	fn goja.Callable
}

var (
	_ typedarray.Object   = &jsObject{}
	_ typedarray.Callable = &jsFunction{}
)

func (o *jsObject) Get(key typedarray.PropertyKey) (value typedarray.Value, err error) {
	// goja reports exceptions thrown by getters as panics.
	defer func() {
		if r := recover(); r != nil {
			ex, ok := r.(*goja.Exception)
			if !ok {
				panic(r)
			}
			value, err = nil, ex
		}
	}()

	if key.Symbol != nil {
		return o.mi.fromJS(o.obj.GetSymbol(o.mi.jsSymbol(key.Symbol))), nil
	}
	return o.mi.fromJS(o.obj.Get(key.Name)), nil
}

func (f *jsFunction) Call(this typedarray.Value, args ...typedarray.Value) (typedarray.Value, error) {
	jsArgs := make([]goja.Value, len(args))
	for i, arg := range args {
		jsArgs[i] = f.mi.toJS(arg)
	}
	result, err := f.fn(f.mi.toJS(this), jsArgs...)
	if err != nil {
		return nil, err
	}
	return f.mi.fromJS(result), nil
}

// fromJS converts a goja value to the engine's value model. Objects stay
// live: reading their properties later runs user code.
func (mi *ModuleInstance) fromJS(v goja.Value) typedarray.Value {
	if v == nil || goja.IsUndefined(v) {
		return typedarray.Undefined
	}
	if goja.IsNull(v) {
		return typedarray.Null
	}

	switch x := v.(type) {
	case *goja.Object:
		obj := &jsObject{mi: mi, obj: x}
		if fn, ok := goja.AssertFunction(x); ok {
			return &jsFunction{jsObject: obj, fn: fn}
		}
		return obj
	case *goja.Symbol:
		return mi.symbol(x)
	}

	switch e := v.Export().(type) {
	case int64:
		return float64(e)
	case float64:
		return e
	case string:
		return e
	case bool:
		return e
	case *big.Int:
		return e
	default:
		return v.String()
	}
}

// toJS converts an engine value back to goja. Views are wrapped in a new view
// object sharing nothing but the engine view.
func (mi *ModuleInstance) toJS(v typedarray.Value) goja.Value {
	if typedarray.IsUndefined(v) {
		return goja.Undefined()
	}
	if v == typedarray.Null {
		return goja.Null()
	}

	rt := mi.vu.Runtime()
	switch x := v.(type) {
	case *jsObject:
		return x.obj
	case *jsFunction:
		return x.obj
	case *typedarray.Symbol:
		return mi.jsSymbol(x)
	case *typedarray.View:
		return mi.newViewObject(x, nil)
	case typedarray.ArrayLike:
		items := make([]interface{}, len(x))
		for i, item := range x {
			items[i] = mi.toJS(item)
		}
		return rt.NewArray(items...)
	default:
		return rt.ToValue(x)
	}
}

// symbol returns the engine symbol standing for s, creating it on first use.
func (mi *ModuleInstance) symbol(s *goja.Symbol) *typedarray.Symbol {
	if s == goja.SymToPrimitive {
		return typedarray.SymbolToPrimitive
	}
	if sym, ok := mi.symbols[s]; ok {
		return sym
	}
	sym := &typedarray.Symbol{Description: s.String()}
	mi.symbols[s] = sym
	mi.jsSymbols[sym] = s
	return sym
}

func (mi *ModuleInstance) jsSymbol(s *typedarray.Symbol) *goja.Symbol {
	if s == typedarray.SymbolToPrimitive {
		return goja.SymToPrimitive
	}
	if sym, ok := mi.jsSymbols[s]; ok {
		return sym
	}
	sym := goja.NewSymbol(s.Description)
	mi.jsSymbols[s] = sym
	mi.symbols[sym] = s
	return sym
}

// coercer implements the engine's conversions with goja's own, so a view
// converts its arguments exactly the way the built-in Number, String and
// BigInt functions do.
type coercer struct {
	mi *ModuleInstance

	// ordinaryToPrimitive is Date.prototype[Symbol.toPrimitive], which runs
	// OrdinaryToPrimitive on its receiver.
	ordinaryToPrimitive goja.Callable
	bigInt              goja.Callable
}

var _ typedarray.Coercer = &coercer{}

func newCoercer(mi *ModuleInstance) *coercer {
	rt := mi.vu.Runtime()
	c := &coercer{mi: mi}

	dateProto := rt.Get("Date").ToObject(rt).Get("prototype").ToObject(rt)
	fn, ok := goja.AssertFunction(dateProto.GetSymbol(goja.SymToPrimitive))
	if !ok {
		mi.throw(errors.New("Date.prototype[Symbol.toPrimitive] is not a function"))
	}
	c.ordinaryToPrimitive = fn

	if c.bigInt, ok = goja.AssertFunction(rt.Get("BigInt")); !ok {
		mi.throw(errors.New("BigInt is not a function"))
	}
	return c
}

// try runs f, turning an exception thrown by user code into an error.
func (c *coercer) try(f func()) error {
	if ex := c.mi.vu.Runtime().Try(f); ex != nil {
		return ex
	}
	return nil
}

func (c *coercer) ToNumber(v typedarray.Value) (n float64, err error) {
	value := c.mi.toJS(v)
	err = c.try(func() {
		n = value.ToNumber().ToFloat()
	})
	return n, err
}

func (c *coercer) ToString(v typedarray.Value) (s string, err error) {
	value := c.mi.toJS(v)
	err = c.try(func() {
		prim := value.ToString()
		if _, ok := prim.(*goja.Symbol); ok {
			panic(c.mi.vu.Runtime().NewTypeError("Cannot convert a Symbol value to a string"))
		}
		s = prim.String()
	})
	return s, err
}

// ToBigInt rejects numbers, unlike the BigInt function it otherwise defers
// to.
func (c *coercer) ToBigInt(v typedarray.Value) (*big.Int, error) {
	prim, err := c.toPrimitiveNumber(c.mi.toJS(v))
	if err != nil {
		return nil, err
	}
	switch prim.Export().(type) {
	case int64, float64:
		return nil, &typedarray.Error{
			Kind:    typedarray.TypeError,
			Message: fmt.Sprintf("Cannot convert %s to a BigInt", prim.String()),
		}
	}

	result, err := c.bigInt(goja.Undefined(), prim)
	if err != nil {
		return nil, err
	}
	n, _ := result.Export().(*big.Int)
	return n, nil
}

func (c *coercer) toPrimitiveNumber(v goja.Value) (goja.Value, error) {
	obj, ok := v.(*goja.Object)
	if !ok {
		return v, nil
	}
	rt := c.mi.vu.Runtime()
	hint := rt.ToValue("number")

	var exotic goja.Value
	if err := c.try(func() { exotic = obj.GetSymbol(goja.SymToPrimitive) }); err != nil {
		return nil, err
	}
	if common.IsNullish(exotic) {
		return c.ordinaryToPrimitive(obj, hint)
	}

	fn, ok := goja.AssertFunction(exotic)
	if !ok {
		return nil, &typedarray.Error{Kind: typedarray.TypeError, Message: "Symbol.toPrimitive is not a function"}
	}
	result, err := fn(obj, hint)
	if err != nil {
		return nil, err
	}
	if _, isObject := result.(*goja.Object); isObject {
		return nil, &typedarray.Error{Kind: typedarray.TypeError, Message: "Cannot convert object to primitive value"}
	}
	return result, nil
}
