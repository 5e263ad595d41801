package typedarray

import (
	"math"
	"math/big"
	"strconv"
)

// MaxSafeInteger is 2^53-1, the upper bound of ToIndex.
const MaxSafeInteger = 1<<53 - 1

// Coercer performs the conversions that may run user code, through
// @@toPrimitive, valueOf or toString, and those that parse strings. The
// engine never converts an object or a string itself: a buffer hands its
// coercer to every view over it, and hosts install theirs with [WithCoercer].
//
// Errors returned by a Coercer are propagated unmodified.
type Coercer interface {
	ToNumber(v Value) (float64, error)
	ToBigInt(v Value) (*big.Int, error)
	ToString(v Value) (string, error)
}

// Primitives is the coercer of buffers created without [WithCoercer]. It
// converts the values that need neither user code nor parsing: undefined,
// null, booleans, numbers and BigInts. Strings, symbols and objects are a
// TypeError.
//
//nolint:gochecknoglobals
var Primitives Coercer = primitives{}

type primitives struct{}

func errNeedsHost(v Value) *Error {
	return newTypeError("Cannot convert %s without a host runtime", TypeOf(v))
}

func (primitives) ToNumber(v Value) (float64, error) {
	switch x := v.(type) {
	case nil, undefinedType:
		return math.NaN(), nil
	case nullType:
		return 0, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case *big.Int:
		return 0, newTypeError("Cannot convert a BigInt value to a number")
	default:
		return 0, errNeedsHost(v)
	}
}

func (primitives) ToBigInt(v Value) (*big.Int, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case *big.Int:
		return new(big.Int).Set(x), nil
	case nil, undefinedType, nullType, float64, int, int64:
		return nil, newTypeError("Cannot convert %s to a BigInt", TypeOf(v))
	default:
		return nil, errNeedsHost(v)
	}
}

// ToString formats integral numbers in the safe range only; anything else
// needs the host's Number formatting.
func (primitives) ToString(v Value) (string, error) {
	switch x := v.(type) {
	case nil, undefinedType:
		return "undefined", nil
	case nullType:
		return "null", nil
	case bool:
		return strconv.FormatBool(x), nil
	case string:
		return x, nil
	case *big.Int:
		return x.String(), nil
	case float64:
		if x == math.Trunc(x) && math.Abs(x) <= MaxSafeInteger {
			return strconv.FormatInt(int64(x), 10), nil
		}
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	}
	return "", errNeedsHost(v)
}

// ToBoolean converts v to a Boolean. It never runs user code.
func ToBoolean(v Value) bool {
	switch x := v.(type) {
	case nil, undefinedType, nullType:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case int64:
		return x != 0
	case string:
		return x != ""
	case *big.Int:
		return x.Sign() != 0
	default:
		return true
	}
}

// ToIntegerOrInfinity converts v with c to an integral Number, keeping the
// infinities. NaN converts to 0 and -0 to +0.
func ToIntegerOrInfinity(c Coercer, v Value) (float64, error) {
	n, err := c.ToNumber(v)
	if err != nil {
		return 0, err
	}
	return integerOrInfinity(n), nil
}

func integerOrInfinity(n float64) float64 {
	if math.IsNaN(n) || n == 0 {
		return 0
	}
	if math.IsInf(n, 0) {
		return n
	}
	t := math.Trunc(n)
	if t == 0 {
		return 0
	}
	return t
}

// formatInteger formats a value produced by ToIntegerOrInfinity for an error
// message.
func formatInteger(n float64) string {
	switch {
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
}

// ToIndex converts v to a non-negative integer index no larger than 2^53-1.
// Undefined converts to 0. Values outside of that range are a RangeError.
func ToIndex(c Coercer, v Value) (int, error) {
	if IsUndefined(v) {
		return 0, nil
	}
	integer, err := ToIntegerOrInfinity(c, v)
	if err != nil {
		return 0, err
	}
	if integer < 0 || integer > MaxSafeInteger {
		return 0, newRangeError("Invalid index: %s", formatInteger(integer))
	}
	return int(integer), nil
}

// relativeIndex resolves a relative start/end argument, already converted by
// ToIntegerOrInfinity, against length.
func relativeIndex(relative float64, length int) int {
	switch {
	case math.IsInf(relative, -1):
		return 0
	case relative < 0:
		return int(math.Max(float64(length)+relative, 0))
	default:
		return int(math.Min(relative, float64(length)))
	}
}

// relativeArgument coerces an optional start/end argument, defaulting to def
// when it is undefined.
func relativeArgument(c Coercer, v Value, length, def int) (int, error) {
	if IsUndefined(v) {
		return def, nil
	}
	relative, err := ToIntegerOrInfinity(c, v)
	if err != nil {
		return 0, err
	}
	return relativeIndex(relative, length), nil
}
