package typedarray

import (
	"math/big"
	"strconv"
)

// Value is a host language value handed to the engine. It is one of
// [Undefined], [Null], bool, float64, string, *[Symbol], *big.Int or an
// [Object]. Hosts adapt their own value representation to this set.
type Value any

type (
	undefinedType struct{}
	nullType      struct{}
)

//nolint:gochecknoglobals
var (
	// Undefined is the undefined primitive.
	Undefined Value = undefinedType{}
	// Null is the null primitive.
	Null Value = nullType{}
)

func (undefinedType) String() string { return "undefined" }
func (nullType) String() string      { return "null" }

// Symbol is a symbol primitive. Symbols are compared by identity.
type Symbol struct {
	Description string
}

// SymbolToPrimitive is the well-known @@toPrimitive symbol. Hosts must map
// their own well-known symbol onto this one when implementing [Object].
//
//nolint:gochecknoglobals
var SymbolToPrimitive = &Symbol{Description: "Symbol.toPrimitive"}

// PropertyKey identifies an object property, by name or by symbol.
type PropertyKey struct {
	Name   string
	Symbol *Symbol
}

// Key returns the PropertyKey for a string property name.
func Key(name string) PropertyKey {
	return PropertyKey{Name: name}
}

// IndexKey returns the PropertyKey for an array index.
func IndexKey(i int) PropertyKey {
	return PropertyKey{Name: strconv.Itoa(i)}
}

// SymbolKey returns the PropertyKey for a symbol.
func SymbolKey(s *Symbol) PropertyKey {
	return PropertyKey{Symbol: s}
}

func (k PropertyKey) String() string {
	if k.Symbol != nil {
		return "[" + k.Symbol.Description + "]"
	}
	return k.Name
}

// Object is a host object. Get may run user code (getters, proxy traps) and
// therefore is a re-entrancy point: the engine does not assume any buffer
// length it read before the call is still valid after it.
type Object interface {
	Get(key PropertyKey) (Value, error)
}

// Callable is an object that can be called. Errors returned by Call are
// propagated to the caller of the engine unmodified.
type Callable interface {
	Object
	Call(this Value, args ...Value) (Value, error)
}

// IsUndefined reports whether v is undefined. A nil Value counts as undefined,
// which is what an omitted optional argument looks like from Go.
func IsUndefined(v Value) bool {
	return v == nil || v == Undefined
}

// IsNullish reports whether v is undefined or null.
func IsNullish(v Value) bool {
	return IsUndefined(v) || v == Null
}

// IsCallable reports whether v can be called.
func IsCallable(v Value) bool {
	_, ok := v.(Callable)
	return ok
}

// TypeOf returns the ECMAScript typeof string of v.
func TypeOf(v Value) string {
	switch v.(type) {
	case nil, undefinedType:
		return "undefined"
	case nullType:
		return "object"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case *Symbol:
		return "symbol"
	case *big.Int:
		return "bigint"
	case Callable:
		return "function"
	default:
		return "object"
	}
}

// ArrayLike is an [Object] over a Go slice, with a length property and
// integer keyed elements. Holes are represented by nil entries.
type ArrayLike []Value

var _ Object = ArrayLike(nil)

// Get implements [Object].
func (a ArrayLike) Get(key PropertyKey) (Value, error) {
	if key.Symbol != nil {
		return Undefined, nil
	}
	if key.Name == "length" {
		return float64(len(a)), nil
	}
	i, err := strconv.Atoi(key.Name)
	if err != nil || i < 0 || i >= len(a) || a[i] == nil {
		return Undefined, nil
	}
	return a[i], nil
}
