package typedarray

import (
	"math"
	"math/big"
	"strings"
)

// Includes reports whether search is among the elements, comparing with
// SameValueZero. The length is taken before fromIndex is converted; if the
// conversion shrinks the buffer, the elements past the new end read as
// undefined, so searching for undefined then succeeds.
func (v *View) Includes(search, fromIndex Value) (bool, error) {
	state, err := v.Validate("%TypedArray%.prototype.includes")
	if err != nil {
		return false, err
	}
	length := state.Length
	if length == 0 {
		return false, nil
	}

	k, ok, err := forwardStart(v.coercer(), fromIndex, length)
	if err != nil || !ok {
		return false, err
	}
	search = normalize(search)
	for ; k < length; k++ {
		if sameValueZero(v.Get(k), search) {
			return true, nil
		}
	}
	return false, nil
}

// IndexOf returns the first index holding search under strict equality, or
// -1. Like Includes it iterates up to the length taken before fromIndex is
// converted, but indices that are no longer valid are skipped rather than
// read as undefined.
func (v *View) IndexOf(search, fromIndex Value) (int, error) {
	state, err := v.Validate("%TypedArray%.prototype.indexOf")
	if err != nil {
		return 0, err
	}
	length := state.Length
	if length == 0 {
		return -1, nil
	}

	k, ok, err := forwardStart(v.coercer(), fromIndex, length)
	if err != nil || !ok {
		return -1, err
	}
	search = normalize(search)
	for ; k < length; k++ {
		if v.HasIndex(k) && isStrictlyEqual(v.read(k), search) {
			return k, nil
		}
	}
	return -1, nil
}

// LastIndexOf returns the last index holding search under strict equality, or
// -1. fromIndex is optional; an explicit undefined converts to 0.
func (v *View) LastIndexOf(search Value, fromIndex ...Value) (int, error) {
	state, err := v.Validate("%TypedArray%.prototype.lastIndexOf")
	if err != nil {
		return 0, err
	}
	length := state.Length
	if length == 0 {
		return -1, nil
	}

	n := float64(length - 1)
	if len(fromIndex) > 0 {
		if n, err = ToIntegerOrInfinity(v.coercer(), fromIndex[0]); err != nil {
			return 0, err
		}
	}
	if math.IsInf(n, -1) {
		return -1, nil
	}

	k := -1
	switch {
	case n >= 0:
		k = int(math.Min(n, float64(length-1)))
	case float64(length)+n >= 0:
		k = length + int(n)
	}
	search = normalize(search)
	for ; k >= 0; k-- {
		if v.HasIndex(k) && isStrictlyEqual(v.read(k), search) {
			return k, nil
		}
	}
	return -1, nil
}

// forwardStart converts fromIndex into the first index to visit. ok is false
// when the search is empty, i.e. fromIndex is +Infinity or past the end.
func forwardStart(c Coercer, fromIndex Value, length int) (int, bool, error) {
	n, err := ToIntegerOrInfinity(c, fromIndex)
	if err != nil {
		return 0, false, err
	}
	switch {
	case math.IsInf(n, 1) || n >= float64(length):
		return 0, false, nil
	case math.IsInf(n, -1):
		return 0, true, nil
	case n >= 0:
		return int(n), true, nil
	default:
		return int(math.Max(float64(length)+n, 0)), true, nil
	}
}

// At returns the element at a relative index, counting back from the end
// for negative values.
func (v *View) At(index Value) (Value, error) {
	state, err := v.Validate("%TypedArray%.prototype.at")
	if err != nil {
		return nil, err
	}
	length := state.Length

	relative, err := ToIntegerOrInfinity(v.coercer(), index)
	if err != nil {
		return nil, err
	}
	k := relative
	if relative < 0 {
		k = float64(length) + relative
	}
	if k < 0 || k >= float64(length) {
		return Undefined, nil
	}
	return v.GetIndex(k), nil
}

// Join converts the elements to strings and concatenates them with separator,
// "," by default. Elements that became unreachable during the conversion of
// separator render as the empty string.
func (v *View) Join(separator Value) (string, error) {
	state, err := v.Validate("%TypedArray%.prototype.join")
	if err != nil {
		return "", err
	}
	length := state.Length

	sep := ","
	if !IsUndefined(separator) {
		if sep, err = v.coercer().ToString(separator); err != nil {
			return "", err
		}
	}

	var sb strings.Builder
	for k := range length {
		if k > 0 {
			sb.WriteString(sep)
		}
		element := v.Get(k)
		if IsUndefined(element) {
			continue
		}
		s, err := v.coercer().ToString(element)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func normalize(v Value) Value {
	switch x := v.(type) {
	case nil:
		return Undefined
	case int:
		return float64(x)
	case int64:
		return float64(x)
	default:
		return v
	}
}

// sameValueZero compares an element with a search value. Elements are always
// numbers, BigInts or undefined.
func sameValueZero(element, search Value) bool {
	if x, ok := element.(float64); ok {
		y, ok := search.(float64)
		if !ok {
			return false
		}
		if math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
		return x == y
	}
	return isStrictlyEqual(element, search)
}

func isStrictlyEqual(element, search Value) bool {
	switch x := element.(type) {
	case float64:
		y, ok := search.(float64)
		return ok && x == y
	case *big.Int:
		y, ok := search.(*big.Int)
		return ok && x.Cmp(y) == 0
	default:
		return IsUndefined(element) && IsUndefined(search)
	}
}
