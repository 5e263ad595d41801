package js

import (
	"context"

	"github.com/dop251/goja"

	"go.k6.io/typedview/js/common"
)

type moduleVUImpl struct {
	ctx     context.Context
	initEnv *common.InitEnvironment
	runtime *goja.Runtime
}

func (m *moduleVUImpl) Context() context.Context {
	return m.ctx
}

func (m *moduleVUImpl) InitEnv() *common.InitEnvironment {
	return m.initEnv
}

func (m *moduleVUImpl) Runtime() *goja.Runtime {
	return m.runtime
}
