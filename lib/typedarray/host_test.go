package typedarray

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// testHost is a Coercer over the test value model: testObject and testFunc
// convert through @@toPrimitive, valueOf and toString, and strings parse with
// Go's number syntax, which covers what the tests feed it.
type testHost struct{}

var _ Coercer = testHost{}

func (h testHost) toPrimitive(v Value, preferred string) (Value, error) {
	obj, ok := v.(Object)
	if !ok {
		return v, nil
	}

	exotic, err := obj.Get(SymbolKey(SymbolToPrimitive))
	if err != nil {
		return nil, err
	}
	if !IsNullish(exotic) {
		fn, ok := exotic.(Callable)
		if !ok {
			return nil, newTypeError("[Symbol.toPrimitive] is not a function")
		}
		result, err := fn.Call(obj, preferred)
		if err != nil {
			return nil, err
		}
		if _, isObject := result.(Object); isObject {
			return nil, newTypeError("Cannot convert object to primitive value")
		}
		return result, nil
	}

	names := [2]string{"valueOf", "toString"}
	if preferred == "string" {
		names = [2]string{"toString", "valueOf"}
	}
	for _, name := range names {
		method, err := obj.Get(Key(name))
		if err != nil {
			return nil, err
		}
		fn, ok := method.(Callable)
		if !ok {
			continue
		}
		result, err := fn.Call(obj)
		if err != nil {
			return nil, err
		}
		if _, isObject := result.(Object); !isObject {
			return result, nil
		}
	}
	return nil, newTypeError("Cannot convert object to primitive value")
}

func (h testHost) ToNumber(v Value) (float64, error) {
	prim, err := h.toPrimitive(v, "number")
	if err != nil {
		return 0, err
	}
	s, ok := prim.(string)
	if !ok {
		return Primitives.ToNumber(prim)
	}

	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return 0, nil
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		n, ok := new(big.Int).SetString(s[2:], 16)
		if !ok {
			return math.NaN(), nil
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), nil
	}
	return f, nil
}

func (h testHost) ToBigInt(v Value) (*big.Int, error) {
	prim, err := h.toPrimitive(v, "number")
	if err != nil {
		return nil, err
	}
	s, ok := prim.(string)
	if !ok {
		return Primitives.ToBigInt(prim)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, &Error{Kind: SyntaxError, Message: "Cannot convert " + s + " to a BigInt"}
	}
	return n, nil
}

func (h testHost) ToString(v Value) (string, error) {
	prim, err := h.toPrimitive(v, "string")
	if err != nil {
		return "", err
	}
	if f, ok := prim.(float64); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	return Primitives.ToString(prim)
}

// countingHost counts the conversions it performs.
type countingHost struct {
	testHost
	calls *int
}

func (h countingHost) ToNumber(v Value) (float64, error) {
	*h.calls++
	return h.testHost.ToNumber(v)
}
