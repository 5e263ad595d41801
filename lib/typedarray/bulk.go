package typedarray

import (
	"math"
	"unicode/utf16"
)

// Fill writes value to the elements in [start, end). value is converted once,
// before start and end; any of the three conversions may resize the buffer,
// so the view is validated again afterwards and end is clamped to the
// effective length at that point.
func (v *View) Fill(value, start, end Value) error {
	const method = "%TypedArray%.prototype.fill"

	state, err := v.Validate(method)
	if err != nil {
		return err
	}
	length := state.Length

	coerced, err := v.kind.Coerce(v.coercer(), value)
	if err != nil {
		return err
	}
	startIndex, err := relativeArgument(v.coercer(), start, length, 0)
	if err != nil {
		return err
	}
	endIndex, err := relativeArgument(v.coercer(), end, length, length)
	if err != nil {
		return err
	}

	state, err = v.Validate(method)
	if err != nil {
		return err
	}
	endIndex = min(endIndex, state.Length)

	for k := startIndex; k < endIndex; k++ {
		v.write(k, coerced)
	}
	return nil
}

// CopyWithin copies the elements in [start, end) to target, with memmove
// semantics. When the arguments' conversion shrinks the buffer, the copied
// range is clamped so neither side reaches past the new effective length.
func (v *View) CopyWithin(target, start, end Value) error {
	const method = "%TypedArray%.prototype.copyWithin"

	state, err := v.Validate(method)
	if err != nil {
		return err
	}
	length := state.Length

	to, err := relativeArgument(v.coercer(), target, length, 0)
	if err != nil {
		return err
	}
	from, err := relativeArgument(v.coercer(), start, length, 0)
	if err != nil {
		return err
	}
	final, err := relativeArgument(v.coercer(), end, length, length)
	if err != nil {
		return err
	}

	count := min(final-from, length-to)
	if count <= 0 {
		return nil
	}

	state, err = v.Validate(method)
	if err != nil {
		return err
	}
	length = state.Length
	count = min(count, length-from, length-to)
	if count <= 0 {
		return nil
	}

	size := v.kind.Size()
	n := count * size
	copy(v.buffer.bytes(v.byteOffset+to*size, n), v.buffer.bytes(v.byteOffset+from*size, n))
	return nil
}

// Reverse reverses the elements in place, preserving their bit patterns.
func (v *View) Reverse() error {
	state, err := v.Validate("%TypedArray%.prototype.reverse")
	if err != nil {
		return err
	}

	size := v.kind.Size()
	for lower, upper := 0, state.Length-1; lower < upper; lower, upper = lower+1, upper-1 {
		lo := v.buffer.bytes(v.byteOffset+lower*size, size)
		hi := v.buffer.bytes(v.byteOffset+upper*size, size)
		for i := range size {
			lo[i], hi[i] = hi[i], lo[i]
		}
	}
	return nil
}

// SetFrom copies source into the view starting at offset. source may be a
// *View, an array-like Object, or a primitive that is converted to an object
// the way ToObject does.
func (v *View) SetFrom(source, offset Value) error {
	switch src := source.(type) {
	case *View:
		return v.SetFromView(src, offset)
	case Object:
		return v.SetFromArrayLike(src, offset)
	case string:
		// a string object has one element per UTF-16 code unit
		units := utf16.Encode([]rune(src))
		chars := make(ArrayLike, len(units))
		for i, u := range units {
			chars[i] = string(rune(u))
		}
		return v.SetFromArrayLike(chars, offset)
	default:
		if IsNullish(source) {
			return newTypeError("%%TypedArray%%.prototype.set: cannot convert %s to object", TypeOf(source))
		}
		return v.SetFromArrayLike(ArrayLike{}, offset)
	}
}

func (v *View) targetOffset(offset Value) (float64, error) {
	targetOffset, err := ToIntegerOrInfinity(v.coercer(), offset)
	if err != nil {
		return 0, err
	}
	if targetOffset < 0 {
		return 0, newRangeError("%%TypedArray%%.prototype.set: offset is out of bounds")
	}
	return targetOffset, nil
}

// SetFromView copies the elements of src into the view. offset is converted
// first; only then are the target and the source validated, so a conversion
// that resizes either buffer is observed.
func (v *View) SetFromView(src *View, offset Value) error {
	const method = "%TypedArray%.prototype.set"

	targetOffset, err := v.targetOffset(offset)
	if err != nil {
		return err
	}
	targetState, err := v.Validate(method)
	if err != nil {
		return err
	}
	srcState, err := src.Validate(method)
	if err != nil {
		return err
	}
	if v.kind.IsBigInt() != src.kind.IsBigInt() {
		return newTypeError("%s: cannot mix BigInt and other types, use explicit conversions", method)
	}
	if math.IsInf(targetOffset, 1) || float64(srcState.Length)+targetOffset > float64(targetState.Length) {
		return newRangeError("%s: source is too large", method)
	}

	to := int(targetOffset)
	if v.kind == src.kind {
		size := v.kind.Size()
		n := srcState.Length * size
		copy(v.buffer.bytes(v.byteOffset+to*size, n), src.buffer.bytes(src.byteOffset, n))
		return nil
	}

	// Different kinds over the same buffer may overlap; read everything first.
	values := make([]Value, srcState.Length)
	for i := range values {
		values[i] = src.read(i)
	}
	for i, value := range values {
		v.write(to+i, value)
	}
	return nil
}

// SetFromArrayLike copies the elements of an array-like object into the view.
// Reading an element may run user code that resizes the buffer; every write
// goes through the element accessor, so it targets the layout current at the
// time of the write and is dropped if the index is no longer valid.
func (v *View) SetFromArrayLike(src Object, offset Value) error {
	const method = "%TypedArray%.prototype.set"

	targetOffset, err := v.targetOffset(offset)
	if err != nil {
		return err
	}
	targetState, err := v.Validate(method)
	if err != nil {
		return err
	}
	srcLength, err := lengthOfArrayLike(v.coercer(), src)
	if err != nil {
		return err
	}
	if math.IsInf(targetOffset, 1) || float64(srcLength)+targetOffset > float64(targetState.Length) {
		return newRangeError("%s: source is too large", method)
	}

	for k := range srcLength {
		value, err := src.Get(IndexKey(k))
		if err != nil {
			return err
		}
		if err := v.SetIndex(targetOffset+float64(k), value); err != nil {
			return err
		}
	}
	return nil
}
