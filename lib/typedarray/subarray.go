package typedarray

// Subarray returns a new view over the same buffer covering [start, end) of
// the current view. It does not validate bounds: when the receiver is out of
// bounds its length counts as 0, and the new view's own bounds are evaluated
// whenever it is used. A length-tracking receiver with no end yields a
// length-tracking view.
func (v *View) Subarray(start, end Value) (*View, error) {
	srcLength := Evaluate(v).Length

	startIndex, err := relativeArgument(v.coercer(), start, srcLength, 0)
	if err != nil {
		return nil, err
	}
	size := v.kind.Size()
	sub := &View{
		buffer:     v.buffer,
		kind:       v.kind,
		byteOffset: v.byteOffset + startIndex*size,
	}

	if v.tracking && IsUndefined(end) {
		sub.tracking = true
	} else {
		endIndex, err := relativeArgument(v.coercer(), end, srcLength, srcLength)
		if err != nil {
			return nil, err
		}
		sub.length = max(endIndex-startIndex, 0)
	}

	v.buffer.track(sub)
	return sub, nil
}

// Slice copies [start, end) into a new array of the same kind. The new array
// is sized before the bounds are checked again, so elements that the
// conversion of start or end put out of reach stay zero in the copy.
func (v *View) Slice(start, end Value) (*View, error) {
	const method = "%TypedArray%.prototype.slice"

	state, err := v.Validate(method)
	if err != nil {
		return nil, err
	}
	srcLength := state.Length

	startIndex, err := relativeArgument(v.coercer(), start, srcLength, 0)
	if err != nil {
		return nil, err
	}
	endIndex, err := relativeArgument(v.coercer(), end, srcLength, srcLength)
	if err != nil {
		return nil, err
	}
	count := max(endIndex-startIndex, 0)

	result, err := NewArray(v.kind, count, v.buffer.inherited()...)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return result, nil
	}

	state, err = v.Validate(method)
	if err != nil {
		return nil, err
	}
	endIndex = min(endIndex, state.Length)
	count = max(endIndex-startIndex, 0)

	size := v.kind.Size()
	n := count * size
	copy(result.buffer.bytes(0, n), v.buffer.bytes(v.byteOffset+startIndex*size, n))
	return result, nil
}
