package modules

import (
	"context"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.k6.io/typedview/js/common"
)

type testVU struct {
	rt *goja.Runtime
}

func (vu testVU) Context() context.Context         { return context.Background() }
func (vu testVU) InitEnv() *common.InitEnvironment { return nil }
func (vu testVU) Runtime() *goja.Runtime           { return vu.rt }

type counterModule struct {
	instances int
}

func (m *counterModule) NewModuleInstance(VU) Instance {
	m.instances++
	return counterInstance{n: m.instances}
}

type counterInstance struct {
	n int
}

func (i counterInstance) Exports() Exports {
	return Exports{
		Default: "default",
		Named:   map[string]interface{}{"n": i.n},
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { Register("no-prefix", struct{}{}) })

	Register("typedview/x/registered", struct{}{})
	assert.Panics(t, func() { Register("typedview/x/registered", struct{}{}) })

	assert.Contains(t, GetJSModules(), "typedview/x/registered")
	assert.Contains(t, GetJSModuleNames(), "typedview/x/registered")
}

func TestInstantiate(t *testing.T) {
	t.Parallel()

	t.Run("module", func(t *testing.T) {
		t.Parallel()

		vu := testVU{rt: goja.New()}
		mod := &counterModule{}
		first := Instantiate(vu, mod)
		second := Instantiate(vu, mod)
		assert.Equal(t, int64(1), first.Get("n").ToInteger())
		assert.Equal(t, int64(2), second.Get("n").ToInteger())
		assert.Equal(t, "default", first.Get("default").String())
		assert.True(t, first.Get("__esModule").ToBoolean())
	})
	t.Run("plain value", func(t *testing.T) {
		t.Parallel()

		vu := testVU{rt: goja.New()}
		obj := Instantiate(vu, map[string]interface{}{"answer": 42})
		assert.Equal(t, int64(42), obj.Get("answer").ToInteger())
	})
}

func TestToESModuleExports(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "d", toESModuleExports(Exports{Default: "d"}))

	named := map[string]interface{}{"a": 1}
	assert.Equal(t, named, toESModuleExports(Exports{Named: named}))

	both, ok := toESModuleExports(Exports{Default: "d", Named: named}).(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "d", both["default"])
	assert.Equal(t, 1, both["a"])
	assert.Equal(t, true, both["__esModule"])
}

func TestModuleSystem(t *testing.T) {
	t.Parallel()

	vu := testVU{rt: goja.New()}
	mod := &counterModule{}
	ms := NewModuleSystem(vu, map[string]interface{}{"counter": mod})
	require.NoError(t, ms.Install())

	v, err := vu.rt.RunString(`
		var a = require("counter");
		var b = require("counter");
		[a === b, a.n].join(",");
	`)
	require.NoError(t, err)
	assert.Equal(t, "true,1", v.String())
	assert.Equal(t, 1, mod.instances)

	_, err = vu.rt.RunString(`require("missing")`)
	assert.ErrorContains(t, err, `unknown module "missing"`)

	_, err = ms.Require("")
	assert.ErrorContains(t, err, "empty specifier")
}
