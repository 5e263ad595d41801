package modules

import (
	"github.com/dop251/goja"
)

// Instantiate returns the exports object of mod for vu. A mod implementing
// Module gets a fresh Instance; any other value is exposed as it is.
func Instantiate(vu VU, mod interface{}) *goja.Object {
	rt := vu.Runtime()
	if m, ok := mod.(Module); ok {
		return rt.ToValue(toESModuleExports(m.NewModuleInstance(vu).Exports())).ToObject(rt)
	}
	return rt.ToValue(mod).ToObject(rt)
}

func toESModuleExports(exp Exports) interface{} {
	if exp.Named == nil {
		return exp.Default
	}
	if exp.Default == nil {
		return exp.Named
	}

	result := make(map[string]interface{}, len(exp.Named)+2)

	for k, v := range exp.Named {
		result[k] = v
	}
	result["default"] = exp.Default
	// lets code transpiled from ESM to CommonJS pick up the default export.
	result["__esModule"] = true

	return result
}
