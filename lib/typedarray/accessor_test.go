package typedarray

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	t.Parallel()

	buf := newResizable(t, 8, 16)
	v := newView(t, buf, Int16, 0, Fixed(4))

	require.NoError(t, v.Set(0, 1.0))
	require.NoError(t, v.Set(1, "-2"))
	require.NoError(t, v.Set(2, 65537.0))
	require.NoError(t, v.Set(3, math.NaN()))
	assert.Equal(t, floats(1, -2, 1, 0), contents(v))

	assert.Equal(t, Undefined, v.Get(4))
	assert.Equal(t, Undefined, v.Get(-1))
	assert.Equal(t, Undefined, v.GetIndex(0.5))
	assert.Equal(t, Undefined, v.GetIndex(math.Copysign(0, -1)))

	require.NoError(t, v.Set(4, 9.0), "out of range writes are dropped")
	require.NoError(t, v.SetIndex(1.5, 9.0))
	assert.Equal(t, floats(1, -2, 1, 0), contents(v))
}

func TestGetSetOutOfBounds(t *testing.T) {
	t.Parallel()

	buf := newResizable(t, 8, 16)
	v := newView(t, buf, Uint8, 0, Fixed(8))
	fillSequence(t, v)

	resize(t, buf, 7)
	assert.Equal(t, Undefined, v.Get(0))
	assert.False(t, v.HasIndex(0))
	require.NoError(t, v.Set(0, 42.0))

	resize(t, buf, 8)
	assert.Equal(t, 1.0, v.Get(0))
}

func TestSetConversionResizes(t *testing.T) {
	t.Parallel()

	t.Run("shrink drops the write", func(t *testing.T) {
		t.Parallel()

		buf := newResizable(t, 4, 8)
		v := newView(t, buf, Uint8, 0, Auto())
		require.NoError(t, v.Set(3, valueOf(func() { resize(t, buf, 2) }, 7.0)))

		resize(t, buf, 4)
		assert.Equal(t, floats(0, 0, 0, 0), contents(v))
	})

	t.Run("grow makes the write valid", func(t *testing.T) {
		t.Parallel()

		buf := newResizable(t, 2, 8)
		v := newView(t, buf, Uint8, 0, Auto())
		require.NoError(t, v.Set(3, valueOf(func() { resize(t, buf, 4) }, 7.0)))
		assert.Equal(t, floats(0, 0, 0, 7), contents(v))
	})

	t.Run("conversion error propagates", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		buf := newResizable(t, 2, 8)
		v := newView(t, buf, Uint8, 0, Auto())
		obj := testObject{
			Key("valueOf"): testFunc(func(Value, ...Value) (Value, error) { return nil, boom }),
		}
		assert.Same(t, boom, v.Set(0, obj))
	})
}

func TestElementConversions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		kind Kind
		in   Value
		want Value
	}{
		{Int8, 128.0, -128.0},
		{Int8, -129.0, 127.0},
		{Uint8, -1.0, 255.0},
		{Uint8, 256.5, 0.0},
		{Uint8Clamped, 300.0, 255.0},
		{Uint8Clamped, -5.0, 0.0},
		{Uint8Clamped, 1.5, 2.0},
		{Uint8Clamped, 2.5, 2.0},
		{Uint8Clamped, 2.51, 3.0},
		{Int16, 32768.0, -32768.0},
		{Uint16, -1.0, 65535.0},
		{Int32, 2147483648.0, -2147483648.0},
		{Uint32, -1.0, 4294967295.0},
		{Uint32, math.Inf(1), 0.0},
		{Float32, 0.1, float64(float32(0.1))},
		{Float64, 0.1, 0.1},
		{BigInt64, new(big.Int).Lsh(big.NewInt(1), 63), new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 63))},
		{BigUint64, big.NewInt(-2), new(big.Int).SetUint64(math.MaxUint64 - 1)},
		{BigInt64, true, big.NewInt(1)},
	}

	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			t.Parallel()

			v, err := NewArray(tc.kind, 1)
			require.NoError(t, err)
			require.NoError(t, v.Set(0, tc.in))
			assert.Equal(t, tc.want, v.Get(0))
		})
	}
}
