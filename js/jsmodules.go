package js

import (
	"go.k6.io/typedview/js/modules/typedarray"
)

func getInternalJSModules() map[string]interface{} {
	return map[string]interface{}{
		"typedview": typedarray.New(),
	}
}
