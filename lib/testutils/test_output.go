package testutils

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

// testOutput makes the test a valid io.Writer, useful for passing it as an
// output for logs and CLI flag help messages.
type testOutput struct{ testing.TB }

func (to testOutput) Write(p []byte) (n int, err error) {
	to.Logf("%s", p)

	return len(p), nil
}

// NewTestOutput returns a simple io.Writer implementation that uses the test's
// logger as an output.
func NewTestOutput(t testing.TB) io.Writer {
	return testOutput{t}
}

// NewLogger returns a debug level logger that writes to the test's log and
// records every entry in the returned hook.
func NewLogger(t testing.TB) (*logrus.Logger, *SimpleLogrusHook) {
	l := logrus.New()
	l.SetLevel(logrus.DebugLevel)
	l.SetOutput(NewTestOutput(t))
	hook := NewLogHook()
	l.AddHook(hook)

	return l, hook
}
