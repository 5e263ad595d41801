// Package exitcodes contains the constants representing possible typedview
// exit codes.
package exitcodes

// ExitCode is just a type representing a process exit code for typedview.
type ExitCode uint8

// list of exit codes used by typedview
const (
	ConformanceFailed ExitCode = 99
	GenericEngine     ExitCode = 103
	InvalidConfig     ExitCode = 104
	ExternalAbort     ExitCode = 105
	ScriptException   ExitCode = 107
	GoPanic           ExitCode = 111
)
