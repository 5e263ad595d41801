package typedarray

import (
	"io"
	"weak"

	"github.com/sirupsen/logrus"
)

// ResizableBuffer is a byte store whose length can change in place, between
// zero and a maximum fixed at creation. Storage grows with the length, so a
// resize may move the bytes; nothing outside the buffer holds on to them.
type ResizableBuffer struct {
	data      []byte
	length    int
	maxLength int
	resizable bool
	detached  bool

	// views are tracked for diagnostics only; they must not keep views alive.
	views      []weak.Pointer[View]
	livePruned int

	logger  logrus.FieldLogger
	coercer Coercer
}

// BufferOption configures a ResizableBuffer.
type BufferOption func(*ResizableBuffer)

// WithLogger makes the buffer log resizes and detaches at debug level.
func WithLogger(logger logrus.FieldLogger) BufferOption {
	return func(b *ResizableBuffer) {
		b.logger = logger
	}
}

// WithCoercer sets the coercer used by every operation on views over the
// buffer, and by the arrays those operations create.
func WithCoercer(c Coercer) BufferOption {
	return func(b *ResizableBuffer) {
		b.coercer = c
	}
}

// NewResizableBuffer returns a resizable buffer of the given length, which can
// later grow up to maxLength bytes.
func NewResizableBuffer(length, maxLength int, opts ...BufferOption) (*ResizableBuffer, error) {
	if length < 0 || length > maxAllocation {
		return nil, newRangeError("Invalid array buffer length: %d", length)
	}
	if maxLength < 0 || maxLength > maxAllocation {
		return nil, newRangeError("Invalid array buffer max length: %d", maxLength)
	}
	if length > maxLength {
		return nil, newRangeError("Array buffer length %d exceeds its max length %d", length, maxLength)
	}
	b := newBuffer(length, maxLength, true, opts)
	return b, nil
}

// NewFixedBuffer returns a buffer that cannot be resized.
func NewFixedBuffer(length int, opts ...BufferOption) (*ResizableBuffer, error) {
	if length < 0 || length > maxAllocation {
		return nil, newRangeError("Invalid array buffer length: %d", length)
	}
	return newBuffer(length, length, false, opts), nil
}

// NewResizableBufferFromValues is the script facing constructor: length and
// maxLength are converted with ToIndex, in that order. A nullish maxLength
// makes a fixed-length buffer.
func NewResizableBufferFromValues(length, maxLength Value, opts ...BufferOption) (*ResizableBuffer, error) {
	c := coercerOf(opts)
	n, err := ToIndex(c, length)
	if err != nil {
		return nil, err
	}
	if IsNullish(maxLength) {
		return NewFixedBuffer(n, opts...)
	}
	m, err := ToIndex(c, maxLength)
	if err != nil {
		return nil, err
	}
	return NewResizableBuffer(n, m, opts...)
}

func newBuffer(length, maxLength int, resizable bool, opts []BufferOption) *ResizableBuffer {
	b := &ResizableBuffer{
		data:      make([]byte, length),
		length:    length,
		maxLength: maxLength,
		resizable: resizable,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		b.logger = l
	}
	if b.coercer == nil {
		b.coercer = Primitives
	}
	return b
}

// coercerOf returns the coercer opts would install, for conversions that run
// before the buffer exists.
func coercerOf(opts []BufferOption) Coercer {
	var b ResizableBuffer
	for _, opt := range opts {
		opt(&b)
	}
	if b.coercer == nil {
		return Primitives
	}
	return b.coercer
}

// inherited returns the options a new array created from a view over b is
// given.
func (b *ResizableBuffer) inherited() []BufferOption {
	return []BufferOption{WithLogger(b.logger), WithCoercer(b.coercer)}
}

// ByteLength returns the current length in bytes; 0 once detached.
func (b *ResizableBuffer) ByteLength() int {
	return b.length
}

// MaxByteLength returns the maximum length in bytes.
func (b *ResizableBuffer) MaxByteLength() int {
	return b.maxLength
}

// Resizable reports whether the buffer may be resized.
func (b *ResizableBuffer) Resizable() bool {
	return b.resizable
}

// Detached reports whether the buffer has been detached.
func (b *ResizableBuffer) Detached() bool {
	return b.detached
}

// Resize changes the length of the buffer in place. Bytes exposed by growing
// are zero.
func (b *ResizableBuffer) Resize(newLength int) error {
	if !b.resizable {
		return newTypeError("ArrayBuffer.prototype.resize: the array buffer is not resizable")
	}
	if b.detached {
		return newTypeError("ArrayBuffer.prototype.resize: the array buffer is detached")
	}
	if newLength < 0 || newLength > b.maxLength {
		return newRangeError("ArrayBuffer.prototype.resize: invalid length %d, max is %d", newLength, b.maxLength)
	}

	old := b.length
	b.grow(newLength)
	b.length = newLength

	b.logger.WithFields(logrus.Fields{
		"old": old,
		"new": newLength,
		"max": b.maxLength,
	}).Debug("Array buffer resized")
	return nil
}

// ResizeValue converts newLength with ToIndex and resizes the buffer. The
// conversion may run user code, including a nested resize; the outer resize
// is applied last.
func (b *ResizableBuffer) ResizeValue(newLength Value) error {
	if !b.resizable {
		return newTypeError("ArrayBuffer.prototype.resize: the array buffer is not resizable")
	}
	n, err := ToIndex(b.coercer, newLength)
	if err != nil {
		return err
	}
	return b.Resize(n)
}

// Detach releases the storage. Every view over the buffer becomes out of bounds.
func (b *ResizableBuffer) Detach() {
	if b.detached {
		return
	}
	b.logger.WithField("old", b.length).Debug("Array buffer detached")
	b.detached = true
	b.data = nil
	b.length = 0
}

// ViewCount returns how many views over the buffer are still reachable.
func (b *ResizableBuffer) ViewCount() int {
	live := b.views[:0]
	for _, wp := range b.views {
		if wp.Value() != nil {
			live = append(live, wp)
		}
	}
	clear(b.views[len(live):])
	b.views = live
	return len(live)
}

// grow makes the store n bytes long, zeroing whatever it exposes. Capacity
// at least doubles so that growing byte by byte stays linear, but never
// exceeds the max length.
func (b *ResizableBuffer) grow(n int) {
	if n <= len(b.data) {
		b.data = b.data[:n]
		return
	}
	if n <= cap(b.data) {
		old := len(b.data)
		b.data = b.data[:n]
		clear(b.data[old:])
		return
	}
	data := make([]byte, n, min(max(n, 2*cap(b.data)), b.maxLength))
	copy(data, b.data)
	b.data = data
}

// track records v and drops the views that are gone once there are twice as
// many entries as there were live views at the last prune.
func (b *ResizableBuffer) track(v *View) {
	b.views = append(b.views, weak.Make(v))
	if len(b.views) >= 2*b.livePruned+16 {
		b.livePruned = b.ViewCount()
	}
}

// bytes returns the live window [offset, offset+n) of the store. Callers must
// have checked the bounds against the current length and must not keep the
// slice across a re-entrancy point.
func (b *ResizableBuffer) bytes(offset, n int) []byte {
	return b.data[offset : offset+n : offset+n]
}
