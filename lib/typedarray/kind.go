package typedarray

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
)

// Kind is the element type of a view. The set of kinds is closed; it is
// selected once when a view is constructed.
type Kind uint8

// The element kinds.
const (
	Int8 Kind = iota + 1
	Uint8
	Uint8Clamped
	Int16
	Uint16
	Int32
	Uint32
	Float32
	Float64
	BigInt64
	BigUint64
)

// Kinds lists every element kind, in constructor order.
//
//nolint:gochecknoglobals
var Kinds = []Kind{
	Int8, Uint8, Uint8Clamped, Int16, Uint16, Int32, Uint32,
	Float32, Float64, BigInt64, BigUint64,
}

// String returns the name of the constructor for the kind, e.g. Int8Array.
func (k Kind) String() string {
	switch k {
	case Int8:
		return "Int8Array"
	case Uint8:
		return "Uint8Array"
	case Uint8Clamped:
		return "Uint8ClampedArray"
	case Int16:
		return "Int16Array"
	case Uint16:
		return "Uint16Array"
	case Int32:
		return "Int32Array"
	case Uint32:
		return "Uint32Array"
	case Float32:
		return "Float32Array"
	case Float64:
		return "Float64Array"
	case BigInt64:
		return "BigInt64Array"
	case BigUint64:
		return "BigUint64Array"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind returns the kind for a constructor name.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown typed array kind %q", name)
}

// Size is the number of bytes per element.
func (k Kind) Size() int {
	switch k {
	case Int8, Uint8, Uint8Clamped:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Float64, BigInt64, BigUint64:
		return 8
	default:
		panic(fmt.Sprintf("invalid kind %d", uint8(k)))
	}
}

// IsBigInt reports whether elements of the kind are BigInts rather than Numbers.
func (k Kind) IsBigInt() bool {
	return k == BigInt64 || k == BigUint64
}

// DefaultValue is the value of a zeroed element: 0 or 0n.
func (k Kind) DefaultValue() Value {
	if k.IsBigInt() {
		return new(big.Int)
	}
	return float64(0)
}

// Coerce converts v with c to the element domain of the kind: ToBigInt for
// BigInt kinds, ToNumber for the rest. It may run user code.
func (k Kind) Coerce(c Coercer, v Value) (Value, error) {
	if k.IsBigInt() {
		return c.ToBigInt(v)
	}
	return c.ToNumber(v)
}

// encode writes an already coerced value into dst, which is at least Size() long.
func (k Kind) encode(dst []byte, v Value) {
	switch k {
	case Int8, Uint8:
		dst[0] = byte(modUint32(v.(float64)))
	case Uint8Clamped:
		dst[0] = clampUint8(v.(float64))
	case Int16, Uint16:
		binary.LittleEndian.PutUint16(dst, uint16(modUint32(v.(float64))))
	case Int32, Uint32:
		binary.LittleEndian.PutUint32(dst, modUint32(v.(float64)))
	case Float32:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v.(float64))))
	case Float64:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(v.(float64)))
	case BigInt64, BigUint64:
		binary.LittleEndian.PutUint64(dst, modUint64(v.(*big.Int)))
	}
}

// decode reads an element from src.
func (k Kind) decode(src []byte) Value {
	switch k {
	case Int8:
		return float64(int8(src[0]))
	case Uint8, Uint8Clamped:
		return float64(src[0])
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(src)))
	case Uint16:
		return float64(binary.LittleEndian.Uint16(src))
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(src)))
	case Uint32:
		return float64(binary.LittleEndian.Uint32(src))
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(src)))
	case Float64:
		return math.Float64frombits(binary.LittleEndian.Uint64(src))
	case BigInt64:
		return big.NewInt(int64(binary.LittleEndian.Uint64(src)))
	case BigUint64:
		return new(big.Int).SetUint64(binary.LittleEndian.Uint64(src))
	default:
		panic(fmt.Sprintf("invalid kind %d", uint8(k)))
	}
}

const twoTo32 = 1 << 32

// modUint32 is the shared core of ToInt8 ... ToUint32: the integer part of f
// modulo 2^32. Narrower kinds keep the low bits.
func modUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), twoTo32)
	if m < 0 {
		m += twoTo32
	}
	return uint32(m)
}

// clampUint8 is ToUint8Clamp: saturate, then round half to even.
func clampUint8(f float64) byte {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= 255:
		return 255
	}
	fl := math.Floor(f)
	switch {
	case fl+0.5 < f:
		return byte(fl + 1)
	case f < fl+0.5:
		return byte(fl)
	case int(fl)%2 == 0:
		return byte(fl)
	default:
		return byte(fl + 1)
	}
}

//nolint:gochecknoglobals
var mask64 = new(big.Int).SetUint64(math.MaxUint64)

// modUint64 is BigInt.asUintN(64, n). big.Int.And uses two's complement for
// negative operands, which is exactly the modulo we need.
func modUint64(n *big.Int) uint64 {
	return new(big.Int).And(n, mask64).Uint64()
}
