package typedarray

import "strconv"

// maxAllocation bounds the byte length of every buffer: the max length of
// resizable buffers and the arrays the engine allocates itself, e.g. for
// NewArray or Slice.
const maxAllocation = 1 << 32

// Length is the length argument of [NewView]: either a fixed element count or
// Auto, which makes a length-tracking view over a resizable buffer.
type Length struct {
	n    int
	auto bool
}

// Fixed returns a fixed element count.
func Fixed(n int) Length {
	return Length{n: n}
}

// Auto returns the "no length given" marker.
func Auto() Length {
	return Length{auto: true}
}

// Tracking is an alias of Auto that reads better at call sites that only
// deal with resizable buffers.
func Tracking() Length {
	return Auto()
}

// View is a typed array view over a ResizableBuffer. Its buffer, kind, offset
// and declared length never change; its effective length is derived from the
// buffer on every access.
type View struct {
	buffer     *ResizableBuffer
	kind       Kind
	byteOffset int
	length     int
	tracking   bool
}

// NewView creates a view over buf, validating that the requested span fits the
// buffer at this moment. A view created with [Auto] over a resizable buffer
// tracks the buffer's length.
func NewView(buf *ResizableBuffer, kind Kind, byteOffset int, length Length) (*View, error) {
	size := kind.Size()
	if byteOffset < 0 {
		return nil, newRangeError("Invalid typed array offset: %d", byteOffset)
	}
	if byteOffset%size != 0 {
		return nil, newRangeError("start offset of %s should be a multiple of %d", kind, size)
	}
	if !length.auto && (length.n < 0 || length.n > MaxSafeInteger/size) {
		return nil, newRangeError("Invalid typed array length: %d", length.n)
	}
	if buf.Detached() {
		return nil, newTypeError("%s: cannot construct a view over a detached array buffer", kind)
	}

	bufferByteLength := buf.ByteLength()
	v := &View{buffer: buf, kind: kind, byteOffset: byteOffset}

	switch {
	case length.auto && buf.Resizable():
		if byteOffset > bufferByteLength {
			return nil, newRangeError("Start offset %d is outside the bounds of the buffer", byteOffset)
		}
		v.tracking = true
	case length.auto:
		if bufferByteLength%size != 0 {
			return nil, newRangeError("byte length of %s should be a multiple of %d", kind, size)
		}
		newByteLength := bufferByteLength - byteOffset
		if newByteLength < 0 {
			return nil, newRangeError("Start offset %d is outside the bounds of the buffer", byteOffset)
		}
		v.length = newByteLength / size
	default:
		if byteOffset+length.n*size > bufferByteLength {
			return nil, newRangeError("Invalid typed array length: %d", length.n)
		}
		v.length = length.n
	}

	buf.track(v)
	return v, nil
}

// NewViewFromValues is the script facing form of NewView: byteOffset and
// length are converted with ToIndex before the buffer length is read, so a
// conversion that resizes the buffer is observed by the validation.
func NewViewFromValues(buf *ResizableBuffer, kind Kind, byteOffset, length Value) (*View, error) {
	offset, err := ToIndex(buf.coercer, byteOffset)
	if err != nil {
		return nil, err
	}
	if offset%kind.Size() != 0 {
		return nil, newRangeError("start offset of %s should be a multiple of %d", kind, kind.Size())
	}
	l := Auto()
	if !IsUndefined(length) {
		n, err := ToIndex(buf.coercer, length)
		if err != nil {
			return nil, err
		}
		l = Fixed(n)
	}
	return NewView(buf, kind, offset, l)
}

// NewArray allocates a zeroed, fixed-length view of n elements over a new
// non-resizable buffer.
func NewArray(kind Kind, n int, opts ...BufferOption) (*View, error) {
	if n < 0 || n > maxAllocation/kind.Size() {
		return nil, newRangeError("Invalid typed array length: %d", n)
	}
	buf, err := NewFixedBuffer(n*kind.Size(), opts...)
	if err != nil {
		return nil, err
	}
	return NewView(buf, kind, 0, Fixed(n))
}

// NewViewFromView copies the current contents of src into a new array. The
// source must be in bounds; a length-tracking source contributes whatever its
// effective length is right now, possibly zero.
func NewViewFromView(kind Kind, src *View) (*View, error) {
	state := Evaluate(src)
	if state.OutOfBounds {
		return nil, newOutOfBoundsError(kind.String())
	}
	if kind.IsBigInt() != src.kind.IsBigInt() {
		return nil, newTypeError("%s: cannot mix BigInt and other types, use explicit conversions", kind)
	}

	dst, err := NewArray(kind, state.Length, src.buffer.inherited()...)
	if err != nil {
		return nil, err
	}
	if kind == src.kind {
		n := state.Length * kind.Size()
		copy(dst.buffer.bytes(0, n), src.buffer.bytes(src.byteOffset, n))
		return dst, nil
	}
	for i := range state.Length {
		dst.write(i, src.read(i))
	}
	return dst, nil
}

// NewViewFromArrayLike creates an array from an array-like object: its length
// property is read first, then each element is read and converted in order,
// with the coercer opts install.
func NewViewFromArrayLike(kind Kind, src Object, opts ...BufferOption) (*View, error) {
	n, err := lengthOfArrayLike(coercerOf(opts), src)
	if err != nil {
		return nil, err
	}
	dst, err := NewArray(kind, n, opts...)
	if err != nil {
		return nil, err
	}
	for k := range n {
		v, err := src.Get(IndexKey(k))
		if err != nil {
			return nil, err
		}
		if err := dst.Set(k, v); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

func lengthOfArrayLike(c Coercer, obj Object) (int, error) {
	v, err := obj.Get(Key("length"))
	if err != nil {
		return 0, err
	}
	n, err := ToIntegerOrInfinity(c, v)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, nil
	}
	if n > MaxSafeInteger {
		return MaxSafeInteger, nil
	}
	return int(n), nil
}

// Buffer returns the backing buffer.
func (v *View) Buffer() *ResizableBuffer {
	return v.buffer
}

func (v *View) coercer() Coercer {
	return v.buffer.coercer
}

// Kind returns the element kind.
func (v *View) Kind() Kind {
	return v.kind
}

// IsLengthTracking reports whether the view follows the buffer's length.
func (v *View) IsLengthTracking() bool {
	return v.tracking
}

func (v *View) String() string {
	state := Evaluate(v)
	if state.OutOfBounds {
		return v.kind.String() + "(out of bounds)"
	}
	return v.kind.String() + "(" + strconv.Itoa(state.Length) + ")"
}

// DeclaredLength returns the length given at construction; 0 for a
// length-tracking view.
func (v *View) DeclaredLength() int {
	return v.length
}
