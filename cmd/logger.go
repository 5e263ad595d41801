package cmd

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"strings"

	"github.com/sirupsen/logrus"

	"go.k6.io/typedview/errext"
	"go.k6.io/typedview/errext/exitcodes"
	"go.k6.io/typedview/log"
)

// logOutput is where --log-output sends the logs: a writer, or a hook that
// writes asynchronously and needs to be listened to.
type logOutput struct {
	writer      io.Writer
	hook        log.AsyncHook
	forceColors bool
}

func (c *rootCommand) resolveLogOutput() (logOutput, error) {
	gs := c.globalState
	colors := func(isTTY bool) bool { return !gs.Flags.NoColor && isTTY }

	switch line := gs.Flags.LogOutput; {
	case line == "stderr":
		return logOutput{writer: gs.Stderr, forceColors: colors(gs.Stderr.IsTTY)}, nil
	case line == "stdout":
		return logOutput{writer: gs.Stdout, forceColors: colors(gs.Stdout.IsTTY)}, nil
	case line == "none":
		return logOutput{writer: io.Discard}, nil
	case strings.HasPrefix(line, "file"):
		hook, err := log.FileHookFromConfigLine(gs.FS, gs.Getwd, gs.FallbackLogger, line)
		if err != nil {
			return logOutput{}, err
		}
		return logOutput{writer: io.Discard, hook: hook}, nil
	default:
		return logOutput{}, fmt.Errorf("unsupported log output '%s'", line)
	}
}

func logFormatter(format string, forceColors, noColor bool) logrus.Formatter {
	switch format {
	case "raw":
		return &log.RawFormatter{}
	case "json":
		return &logrus.JSONFormatter{}
	default:
		return &logrus.TextFormatter{ForceColors: forceColors, DisableColors: noColor}
	}
}

// setupLoggers applies the global log flags to the logger. Everything it
// starts is stopped once stop is closed.
func (c *rootCommand) setupLoggers(stop <-chan struct{}) error {
	gs := c.globalState
	if gs.Flags.Verbose {
		gs.Logger.SetLevel(logrus.DebugLevel)
	}

	out, err := c.resolveLogOutput()
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	gs.Logger.SetOutput(out.writer)
	gs.Logger.SetFormatter(logFormatter(gs.Flags.LogFormat, out.forceColors, gs.Flags.NoColor))
	gs.Logger.WithField("format", gs.Flags.LogFormat).Debug("Logger configured")

	ctx, cancel := context.WithCancel(context.Background())
	if out.hook != nil {
		c.loggersWg.Add(1)
		go func() {
			defer c.loggersWg.Done()
			out.hook.Listen(ctx)
		}()
		gs.Logger.AddHook(out.hook)
	}

	// Whatever still writes to the standard library logger ends up in ours.
	w := gs.Logger.Writer()
	stdlog.SetOutput(w)
	c.loggersWg.Add(1)
	go func() {
		defer c.loggersWg.Done()
		<-stop
		cancel()
		_ = w.Close()
	}()
	return nil
}
