// Package log implements the logrus hooks and helpers used by typedview.
package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

// AsyncHook is a logrus hook that does its work on a separate goroutine.
// Listen must be running for Fire not to block, and it returns once ctx is
// done and every pending line has been flushed.
type AsyncHook interface {
	logrus.Hook
	Listen(ctx context.Context)
}

// RawFormatter it does nothing with the message just prints it
type RawFormatter struct{}

// Format renders a single log entry
func (f RawFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}
