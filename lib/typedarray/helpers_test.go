package typedarray

import (
	"math/big"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// testObject is a plain object with a fixed set of properties.
type testObject map[PropertyKey]Value

func (o testObject) Get(key PropertyKey) (Value, error) {
	if v, ok := o[key]; ok {
		return v, nil
	}
	return Undefined, nil
}

// testFunc is a callable object without properties.
type testFunc func(this Value, args ...Value) (Value, error)

func (testFunc) Get(PropertyKey) (Value, error) { return Undefined, nil }

func (f testFunc) Call(this Value, args ...Value) (Value, error) {
	return f(this, args...)
}

// valueOf returns an object whose valueOf runs fn and returns result.
func valueOf(fn func(), result Value) Object {
	return testObject{
		Key("valueOf"): testFunc(func(Value, ...Value) (Value, error) {
			fn()
			return result, nil
		}),
	}
}

// getterObject is an array-like whose element reads run a hook first, like a
// proxy with a get trap.
type getterObject struct {
	length int
	get    func(i int) Value
}

func (o getterObject) Get(key PropertyKey) (Value, error) {
	if key.Name == "length" {
		return float64(o.length), nil
	}
	i, err := strconv.Atoi(key.Name)
	if err != nil || i < 0 || i >= o.length {
		return Undefined, nil
	}
	return o.get(i), nil
}

func bigInt(n int64) *big.Int {
	return big.NewInt(n)
}

func newResizable(t *testing.T, length, maxLength int) *ResizableBuffer {
	t.Helper()
	buf, err := NewResizableBuffer(length, maxLength, WithCoercer(testHost{}))
	require.NoError(t, err)
	return buf
}

func newView(t *testing.T, buf *ResizableBuffer, kind Kind, byteOffset int, length Length) *View {
	t.Helper()
	v, err := NewView(buf, kind, byteOffset, length)
	require.NoError(t, err)
	return v
}

func resize(t *testing.T, buf *ResizableBuffer, n int) {
	t.Helper()
	require.NoError(t, buf.Resize(n))
}

// fillSequence stores 1, 2, 3 ... in the view.
func fillSequence(t *testing.T, v *View) {
	t.Helper()
	for i := range v.Length() {
		var value Value = float64(i + 1)
		if v.Kind().IsBigInt() {
			value = bigInt(int64(i + 1))
		}
		require.NoError(t, v.Set(i, value))
	}
}

// contents reads the view through the element accessor.
func contents(v *View) []Value {
	out := make([]Value, 0, v.Length())
	for i := range v.Length() {
		out = append(out, v.Get(i))
	}
	return out
}

func floats(values ...float64) []Value {
	out := make([]Value, len(values))
	for i, f := range values {
		out[i] = f
	}
	return out
}
