// Package modulestest contains helpers to test Go modules against a real
// goja runtime.
package modulestest

import (
	"context"

	"github.com/dop251/goja"

	"go.k6.io/typedview/js/common"
	"go.k6.io/typedview/js/modules"
)

// VU is a modules.VU implementation meant to be used within tests
type VU struct {
	CtxField     context.Context
	InitEnvField *common.InitEnvironment
	RuntimeField *goja.Runtime
}

var _ modules.VU = &VU{}

// Context returns internally set field to conform to modules.VU interface
func (m *VU) Context() context.Context {
	return m.CtxField
}

// InitEnv returns internally set field to conform to modules.VU interface
func (m *VU) InitEnv() *common.InitEnvironment {
	return m.InitEnvField
}

// Runtime returns internally set field to conform to modules.VU interface
func (m *VU) Runtime() *goja.Runtime {
	return m.RuntimeField
}
