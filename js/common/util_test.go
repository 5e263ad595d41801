package common

import (
	"errors"
	"net/url"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.k6.io/typedview/lib/typedarray"
)

func TestThrow(t *testing.T) {
	t.Parallel()

	rt := goja.New()
	fn1, ok := goja.AssertFunction(rt.ToValue(func() { Throw(rt, errors.New("aaaa")) }))
	require.True(t, ok, "fn1 is invalid")
	_, err := fn1(goja.Undefined())
	assert.ErrorContains(t, err, "aaaa")

	fn2, ok := goja.AssertFunction(rt.ToValue(func() { Throw(rt, err) }))
	require.True(t, ok, "fn2 is invalid")
	_, err2 := fn2(goja.Undefined())
	var ex *goja.Exception
	require.ErrorAs(t, err2, &ex)
	assert.Same(t, err.(*goja.Exception).Value(), ex.Value()) //nolint:errorlint,forcetypeassert
}

func TestThrowEngineErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		kind string
	}{
		{name: "type error", err: &typedarray.Error{Kind: typedarray.TypeError, Message: "nope"}, kind: "TypeError"},
		{name: "range error", err: &typedarray.Error{Kind: typedarray.RangeError, Message: "nope"}, kind: "RangeError"},
		{name: "syntax error", err: &typedarray.Error{Kind: typedarray.SyntaxError, Message: "nope"}, kind: "SyntaxError"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rt := goja.New()
			require.NoError(t, rt.Set("fail", func() { Throw(rt, tc.err) }))
			v, err := rt.RunString(`
				var result;
				try { fail(); } catch (e) { result = [e instanceof ` + tc.kind + `, e.name, e.message]; }
				result.join("|");
			`)
			require.NoError(t, err)
			assert.Equal(t, "true|"+tc.kind+"|nope", v.String())
		})
	}
}

func TestThrowHint(t *testing.T) {
	t.Parallel()

	buf, err := typedarray.NewResizableBuffer(4, 8)
	require.NoError(t, err)
	view, err := typedarray.NewView(buf, typedarray.Uint8, 0, typedarray.Fixed(4))
	require.NoError(t, err)
	require.NoError(t, buf.Resize(2))
	_, oobErr := view.Validate("probe")
	require.Error(t, oobErr)

	rt := goja.New()
	require.NoError(t, rt.Set("fail", func() { Throw(rt, oobErr) }))
	v, err := rt.RunString(`
		var hint;
		try { fail(); } catch (e) { hint = e.hint; }
		hint;
	`)
	require.NoError(t, err)
	assert.Contains(t, v.String(), "resized or detached")
}

func TestIsNullish(t *testing.T) {
	t.Parallel()

	rt := goja.New()
	assert.True(t, IsNullish(nil))
	assert.True(t, IsNullish(goja.Undefined()))
	assert.True(t, IsNullish(goja.Null()))
	assert.False(t, IsNullish(rt.ToValue(0)))
	assert.False(t, IsNullish(rt.ToValue("")))
	assert.False(t, IsNullish(rt.NewObject()))
}

func TestGetAbsFilePath(t *testing.T) {
	t.Parallel()

	ie := &InitEnvironment{CWD: &url.URL{Scheme: "file", Path: "/work"}}
	assert.Equal(t, "/work/a.js", ie.GetAbsFilePath("a.js"))
	assert.Equal(t, "/b.js", ie.GetAbsFilePath("/b.js"))
	assert.Equal(t, "/c.js", ie.GetAbsFilePath("../c.js"))
}
