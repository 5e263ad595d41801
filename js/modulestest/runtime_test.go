package modulestest

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"go.k6.io/typedview/lib"
	"go.k6.io/typedview/lib/fsext"
)

func TestNewRuntimeConsole(t *testing.T) {
	t.Parallel()

	r := NewRuntime(t)
	_, err := r.RunString(`console.log("a", 1, {"b": 2}); console.warn("careful")`)
	require.NoError(t, err)

	entries := r.LogHook.Drain()
	require.Len(t, entries, 2)
	assert.Equal(t, `a 1 {"b":2}`, entries[0].Message)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "console", entries[0].Data["source"])
	assert.Equal(t, "careful", entries[1].Message)
	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
}

func TestNewRuntimeOptions(t *testing.T) {
	t.Parallel()

	r := NewRuntimeWithOptions(t, lib.Options{LogResizes: null.BoolFrom(true)})
	opts := r.VU.InitEnv().Options
	assert.True(t, opts.LogResizes.Bool)
	assert.Equal(t, int64(lib.DefaultMaxByteLength), opts.MaxByteLength.Int64)
	assert.NotNil(t, r.VU.Context())
}

func TestCompileAndRun(t *testing.T) {
	t.Parallel()

	r := NewRuntime(t)
	require.NoError(t, fsext.WriteFile(r.FS, "/lib.js", []byte(`var answer = 6 * 7;`), 0o644))

	_, err := r.CompileAndRun(r.FS, "/lib.js")
	require.NoError(t, err)
	v, err := r.RunString(`answer`)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.ToInteger())

	_, err = CompileFile(r.FS, "/missing.js")
	assert.Error(t, err)
}
