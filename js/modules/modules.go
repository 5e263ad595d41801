// Package modules contains the contracts between the script runner and the Go
// modules it exposes to scripts, plus the registry of external modules.
package modules

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"go.k6.io/typedview/js/common"
)

const extPrefix string = "typedview/x/"

//nolint:gochecknoglobals
var (
	registry   = make(map[string]interface{})
	registryMu sync.RWMutex
)

// Register makes mod available to require() under name in every runtime
// created afterwards. It panics when name lacks the "typedview/x/" prefix or
// is already taken, since both are programming errors of the caller.
func Register(name string, mod interface{}) {
	if !strings.HasPrefix(name, extPrefix) {
		panic(fmt.Errorf("external module names must be prefixed with '%s', tried to register: %s", extPrefix, name))
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("module already registered: %s", name))
	}
	registry[name] = mod
}

// GetJSModules returns a copy of the registered modules.
func GetJSModules() map[string]interface{} {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return maps.Clone(registry)
}

// GetJSModuleNames returns the names of the registered modules, sorted.
func GetJSModuleNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return slices.Sorted(maps.Keys(registry))
}

// Module is implemented by Go modules that need a per-runtime instance.
type Module interface {
	// NewModuleInstance is called once per runtime requiring the module.
	NewModuleInstance(VU) Instance
}

// Instance is a module bound to one runtime.
type Instance interface {
	Exports() Exports
}

// VU is the runtime a module Instance is bound to.
type VU interface {
	// Context is done when the running script should stop.
	Context() context.Context

	// InitEnv returns the logger, filesystems and options of the run.
	InitEnv() *common.InitEnvironment

	Runtime() *goja.Runtime
}

// Exports are the values a module hands to require(). With Named set, the
// exports object carries the named values and Default under "default";
// otherwise Default is the exports object itself.
type Exports struct {
	Default interface{}
	Named   map[string]interface{}
}
