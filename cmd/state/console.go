package state

import (
	"io"
	"sync"
)

// ConsoleWriter syncs writes with a mutex shared by stdout and stderr and
// remembers whether the output is a TTY.
type ConsoleWriter struct {
	RawOut io.Writer
	Mutex  *sync.Mutex
	Writer io.Writer
	IsTTY  bool
}

func (w *ConsoleWriter) Write(p []byte) (n int, err error) {
	w.Mutex.Lock()
	defer w.Mutex.Unlock()
	return w.Writer.Write(p)
}
