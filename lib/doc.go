// Package lib holds the types shared between the engine, the JS bindings and
// the command line: the run options and their consolidation.
package lib
