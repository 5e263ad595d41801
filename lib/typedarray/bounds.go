package typedarray

import "math"

// EffectiveState is the result of evaluating a view against the current length
// of its buffer. It is derived, never stored.
type EffectiveState struct {
	OutOfBounds bool
	// Length is the effective element length; 0 when out of bounds.
	Length int
}

// InBounds returns the in-bounds state with the given effective length.
func InBounds(length int) EffectiveState {
	return EffectiveState{Length: length}
}

// OutOfBoundsState returns the out-of-bounds state.
func OutOfBoundsState() EffectiveState {
	return EffectiveState{OutOfBounds: true}
}

// Evaluate computes the effective state of v from the buffer's current
// length. It has no side effects and takes no cached input, so it can be
// called at any point and always reflects the latest resize.
func Evaluate(v *View) EffectiveState {
	buf := v.buffer
	if buf.Detached() {
		return OutOfBoundsState()
	}
	current := buf.ByteLength()
	if v.byteOffset > current {
		return OutOfBoundsState()
	}
	if v.tracking {
		return InBounds((current - v.byteOffset) / v.kind.Size())
	}
	if v.byteOffset+v.length*v.kind.Size() > current {
		return OutOfBoundsState()
	}
	return InBounds(v.length)
}

// Evaluate is a shorthand for Evaluate(v).
func (v *View) Evaluate() EffectiveState {
	return Evaluate(v)
}

// Validate evaluates v and fails with a TypeError naming method when the view
// is out of bounds.
func (v *View) Validate(method string) (EffectiveState, error) {
	state := Evaluate(v)
	if state.OutOfBounds {
		return state, newOutOfBoundsError(method)
	}
	return state, nil
}

// Length returns the effective element length; 0 when out of bounds.
func (v *View) Length() int {
	return Evaluate(v).Length
}

// ByteLength returns the effective length in bytes; 0 when out of bounds.
func (v *View) ByteLength() int {
	return Evaluate(v).Length * v.kind.Size()
}

// ByteOffset returns the view's byte offset, or 0 when it is out of bounds.
func (v *View) ByteOffset() int {
	if Evaluate(v).OutOfBounds {
		return 0
	}
	return v.byteOffset
}

// IsValidIntegerIndex reports whether index addresses an element of v right
// now. Non-integral indices and -0 are never valid.
func (v *View) IsValidIntegerIndex(index float64) bool {
	if math.IsNaN(index) || math.IsInf(index, 0) || index != math.Trunc(index) {
		return false
	}
	if index == 0 && math.Signbit(index) {
		return false
	}
	state := Evaluate(v)
	if state.OutOfBounds {
		return false
	}
	return index >= 0 && index < float64(state.Length)
}
