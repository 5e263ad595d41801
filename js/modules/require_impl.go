package modules

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// ModuleSystem resolves require() calls of one VU against a fixed set of Go
// modules. Every specifier is instantiated once per ModuleSystem.
type ModuleSystem struct {
	vu      VU
	modules map[string]interface{}
	cache   map[string]*goja.Object
}

// NewModuleSystem returns a ModuleSystem for vu. The registered external
// modules are available next to mods; mods wins on a name clash.
func NewModuleSystem(vu VU, mods map[string]interface{}) *ModuleSystem {
	all := GetJSModules()
	for name, mod := range mods {
		all[name] = mod
	}
	return &ModuleSystem{
		vu:      vu,
		modules: all,
		cache:   make(map[string]*goja.Object, len(all)),
	}
}

// Require is the actual call that implements require
func (ms *ModuleSystem) Require(specifier string) (*goja.Object, error) {
	if specifier == "" {
		return nil, errors.New("require() can't be used with an empty specifier")
	}
	if exports, ok := ms.cache[specifier]; ok {
		return exports, nil
	}
	mod, ok := ms.modules[specifier]
	if !ok {
		return nil, fmt.Errorf("unknown module %q", specifier)
	}
	exports := Instantiate(ms.vu, mod)
	ms.cache[specifier] = exports
	return exports, nil
}

// Install sets the global require function of the VU's runtime.
func (ms *ModuleSystem) Install() error {
	rt := ms.vu.Runtime()
	return rt.Set("require", func(specifier string) *goja.Object {
		exports, err := ms.Require(specifier)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		return exports
	})
}
