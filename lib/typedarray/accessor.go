package typedarray

// Get returns the element at index, or Undefined when the view is out of
// bounds or index is not below its effective length. It never fails.
func (v *View) Get(index int) Value {
	return v.GetIndex(float64(index))
}

// GetIndex is Get for a canonical numeric property key.
func (v *View) GetIndex(key float64) Value {
	if !v.IsValidIntegerIndex(key) {
		return Undefined
	}
	return v.read(int(key))
}

// HasIndex reports whether index currently addresses an element.
func (v *View) HasIndex(index int) bool {
	return v.IsValidIntegerIndex(float64(index))
}

// Set converts value to the element domain and stores it at index. The
// conversion may run user code that resizes the buffer, so the index is
// checked afterwards; writes to an index that is not valid at that point are
// silently dropped. Only conversion errors are returned.
func (v *View) Set(index int, value Value) error {
	return v.SetIndex(float64(index), value)
}

// SetIndex is Set for a canonical numeric property key.
func (v *View) SetIndex(key float64, value Value) error {
	coerced, err := v.kind.Coerce(v.coercer(), value)
	if err != nil {
		return err
	}
	if v.IsValidIntegerIndex(key) {
		v.write(int(key), coerced)
	}
	return nil
}

// read decodes element i. The caller guarantees i is valid right now.
func (v *View) read(i int) Value {
	size := v.kind.Size()
	return v.kind.decode(v.buffer.bytes(v.byteOffset+i*size, size))
}

// write encodes an already coerced element at i. The caller guarantees i is
// valid right now.
func (v *View) write(i int, coerced Value) {
	size := v.kind.Size()
	v.kind.encode(v.buffer.bytes(v.byteOffset+i*size, size), coerced)
}
