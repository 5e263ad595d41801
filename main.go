// Package main is the entry point of the typedview command.
package main

import (
	"context"

	"go.k6.io/typedview/cmd"
	"go.k6.io/typedview/cmd/state"
)

func main() {
	cmd.ExecuteWithGlobalState(state.NewGlobalState(context.Background()))
}
