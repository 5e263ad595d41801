package typedarray

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	// Buffer of 16 bytes, max 32; views are created at full length and the
	// buffer is then resized to the given length.
	testCases := []struct {
		name       string
		kind       Kind
		byteOffset int
		length     Length
		resizeTo   int
		want       EffectiveState
	}{
		{"fixed in bounds", Int32, 0, Fixed(4), 16, InBounds(4)},
		{"fixed grown", Int32, 0, Fixed(4), 32, InBounds(4)},
		{"fixed partially cut", Int32, 0, Fixed(4), 15, OutOfBoundsState()},
		{"fixed with offset exactly fits", Int32, 8, Fixed(2), 16, InBounds(2)},
		{"fixed with offset cut", Int32, 8, Fixed(2), 12, OutOfBoundsState()},
		{"tracking full", Int32, 0, Auto(), 16, InBounds(4)},
		{"tracking grown", Int32, 0, Auto(), 32, InBounds(8)},
		{"tracking partial element", Int32, 0, Auto(), 7, InBounds(1)},
		{"tracking empty", Int32, 0, Auto(), 0, InBounds(0)},
		{"tracking offset at end", Int16, 8, Auto(), 8, InBounds(0)},
		{"tracking offset past end", Int16, 8, Auto(), 7, OutOfBoundsState()},
		{"zero length fixed at end", Uint8, 16, Fixed(0), 16, InBounds(0)},
		{"zero length fixed past end", Uint8, 16, Fixed(0), 15, OutOfBoundsState()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			buf := newResizable(t, 16, 32)
			v := newView(t, buf, tc.kind, tc.byteOffset, tc.length)
			resize(t, buf, tc.resizeTo)

			got := Evaluate(v)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, v.Evaluate(), "evaluation must be idempotent")
			assert.Equal(t, tc.want.Length, v.Length())
			assert.Equal(t, tc.want.Length*tc.kind.Size(), v.ByteLength())
			if tc.want.OutOfBounds {
				assert.Zero(t, v.ByteOffset())
			} else {
				assert.Equal(t, tc.byteOffset, v.ByteOffset())
			}
		})
	}
}

func TestEvaluateFollowsEveryResize(t *testing.T) {
	t.Parallel()

	buf := newResizable(t, 4, 64)
	tracking := newView(t, buf, Uint16, 4, Auto())
	assert.Equal(t, InBounds(0), Evaluate(tracking))
	for n := 4; n <= 64; n++ {
		resize(t, buf, n)
		assert.Equal(t, InBounds((n-4)/2), Evaluate(tracking), "length %d", n)
	}
	for n := 64; n >= 4; n-- {
		resize(t, buf, n)
		assert.False(t, Evaluate(tracking).OutOfBounds, "length %d", n)
	}
	resize(t, buf, 3)
	assert.True(t, Evaluate(tracking).OutOfBounds)
	resize(t, buf, 7)
	assert.Equal(t, InBounds(1), Evaluate(tracking))
}

func TestEvaluateRoundTrip(t *testing.T) {
	t.Parallel()

	buf := newResizable(t, 8, 16)
	v := newView(t, buf, Uint8, 2, Fixed(4))
	fillSequence(t, v)

	resize(t, buf, 3)
	assert.True(t, Evaluate(v).OutOfBounds)
	assert.Empty(t, contents(v))

	resize(t, buf, 8)
	assert.Equal(t, InBounds(4), Evaluate(v))
	// Element 0 sits at byte 2, which survived the shrink.
	assert.Equal(t, floats(1, 0, 0, 0), contents(v))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	buf := newResizable(t, 4, 8)
	v := newView(t, buf, Uint8, 0, Fixed(4))

	state, err := v.Validate("test")
	require.NoError(t, err)
	assert.Equal(t, InBounds(4), state)

	resize(t, buf, 3)
	_, err = v.Validate("test")
	require.Error(t, err)
	assert.True(t, IsTypeError(err))
	assert.Contains(t, err.Error(), "test: ")

	var engineErr *Error
	require.ErrorAs(t, err, &engineErr)
	assert.NotEmpty(t, engineErr.Hint())
}

func TestIsValidIntegerIndex(t *testing.T) {
	t.Parallel()

	buf := newResizable(t, 4, 8)
	v := newView(t, buf, Uint8, 0, Auto())

	valid := []float64{0, 1, 3}
	invalid := []float64{-1, 4, 0.5, math.NaN(), math.Inf(1), math.Inf(-1), math.Copysign(0, -1)}
	for _, i := range valid {
		assert.True(t, v.IsValidIntegerIndex(i), "%v", i)
	}
	for _, i := range invalid {
		assert.False(t, v.IsValidIntegerIndex(i), "%v", i)
	}

	resize(t, buf, 2)
	assert.False(t, v.IsValidIntegerIndex(2))
	assert.True(t, v.IsValidIntegerIndex(1))
}
