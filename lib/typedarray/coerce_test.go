package typedarray

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitives(t *testing.T) {
	t.Parallel()

	t.Run("numbers", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			in   Value
			want float64
		}{
			{Null, 0},
			{true, 1},
			{false, 0},
			{2, 2},
			{int64(-3), -3},
			{1.5, 1.5},
		}
		for _, tc := range testCases {
			got, err := Primitives.ToNumber(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got, "ToNumber(%v)", tc.in)
		}

		for _, in := range []Value{Undefined, nil} {
			got, err := Primitives.ToNumber(in)
			require.NoError(t, err)
			assert.True(t, math.IsNaN(got))
		}
	})

	t.Run("bigints", func(t *testing.T) {
		t.Parallel()

		n, err := Primitives.ToBigInt(true)
		require.NoError(t, err)
		assert.Equal(t, "1", n.String())

		src := big.NewInt(5)
		n, err = Primitives.ToBigInt(src)
		require.NoError(t, err)
		assert.Equal(t, "5", n.String())
		assert.NotSame(t, src, n)

		for _, in := range []Value{1.0, Undefined, Null} {
			_, err := Primitives.ToBigInt(in)
			require.Error(t, err)
			assert.True(t, IsTypeError(err), "ToBigInt(%v)", in)
		}
	})

	t.Run("strings", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			in   Value
			want string
		}{
			{Undefined, "undefined"},
			{Null, "null"},
			{true, "true"},
			{"x", "x"},
			{big.NewInt(-7), "-7"},
			{-3.0, "-3"},
			{float64(MaxSafeInteger), "9007199254740991"},
		}
		for _, tc := range testCases {
			got, err := Primitives.ToString(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		}
	})

	t.Run("needs a host", func(t *testing.T) {
		t.Parallel()

		for _, in := range []Value{"1", testObject{}, &Symbol{Description: "s"}} {
			_, err := Primitives.ToNumber(in)
			require.Error(t, err)
			assert.True(t, IsTypeError(err), "ToNumber(%v)", in)
		}
		for _, in := range []Value{0.5, math.NaN(), testObject{}} {
			_, err := Primitives.ToString(in)
			require.Error(t, err)
			assert.True(t, IsTypeError(err), "ToString(%v)", in)
		}
		_, err := Primitives.ToNumber(big.NewInt(1))
		assert.True(t, IsTypeError(err))
	})
}

func TestToIntegerOrInfinity(t *testing.T) {
	t.Parallel()

	for in, want := range map[float64]float64{
		1.9:          1,
		-1.9:         -1,
		-0.5:         0,
		math.Inf(1):  math.Inf(1),
		math.Inf(-1): math.Inf(-1),
	} {
		got, err := ToIntegerOrInfinity(Primitives, in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.False(t, math.Signbit(got) && got == 0)
	}

	got, err := ToIntegerOrInfinity(Primitives, math.NaN())
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestToIndex(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   Value
		want int
	}{
		{Undefined, 0},
		{Null, 0},
		{"3", 3},
		{2.9, 2},
		{-0.9, 0},
		{float64(MaxSafeInteger), MaxSafeInteger},
	}
	for _, tc := range testCases {
		got, err := ToIndex(testHost{}, tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "ToIndex(%v)", tc.in)
	}

	for in, msg := range map[float64]string{
		-1.0:             "Invalid index: -1",
		float64(1 << 53): "Invalid index: 9007199254740992",
		math.Inf(1):      "Invalid index: Infinity",
	} {
		_, err := ToIndex(Primitives, in)
		require.Error(t, err)
		assert.True(t, IsRangeError(err), "ToIndex(%v)", in)
		assert.ErrorContains(t, err, msg)
	}

	t.Run("user errors are not wrapped", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		obj := testObject{
			Key("valueOf"): testFunc(func(Value, ...Value) (Value, error) { return nil, boom }),
		}
		_, err := ToIndex(testHost{}, obj)
		assert.Same(t, boom, err)
	})

	t.Run("undefined skips the coercer", func(t *testing.T) {
		t.Parallel()

		var calls int
		n, err := ToIndex(countingHost{calls: &calls}, Undefined)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Zero(t, calls)
	})
}

func TestBufferCoercer(t *testing.T) {
	t.Parallel()

	t.Run("views use the buffer's coercer", func(t *testing.T) {
		t.Parallel()

		var calls int
		buf, err := NewResizableBuffer(4, 8, WithCoercer(countingHost{calls: &calls}))
		require.NoError(t, err)
		v := newView(t, buf, Uint8, 0, Auto())

		require.NoError(t, v.Fill("7", Undefined, Undefined))
		assert.Equal(t, floats(7, 7, 7, 7), contents(v))
		assert.Equal(t, 1, calls)

		sliced, err := v.Slice(1.0, Undefined)
		require.NoError(t, err)
		require.NoError(t, sliced.Fill(1.0, "1", Undefined))
		assert.Equal(t, floats(7, 1, 1), contents(sliced))
		assert.Equal(t, 4, calls)
	})

	t.Run("default coercer rejects strings", func(t *testing.T) {
		t.Parallel()

		buf, err := NewResizableBuffer(4, 8)
		require.NoError(t, err)
		v := newView(t, buf, Uint8, 0, Auto())

		err = v.Fill("7", Undefined, Undefined)
		require.Error(t, err)
		assert.True(t, IsTypeError(err))
		assert.Equal(t, floats(0, 0, 0, 0), contents(v))
	})
}

func TestToBoolean(t *testing.T) {
	t.Parallel()

	for _, in := range []Value{true, 1.0, "x", big.NewInt(2), testObject{}, &Symbol{}} {
		assert.True(t, ToBoolean(in), "%v", in)
	}
	for _, in := range []Value{nil, Undefined, Null, false, 0.0, math.NaN(), "", new(big.Int)} {
		assert.False(t, ToBoolean(in), "%v", in)
	}
}
