package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.k6.io/typedview/cmd/state"
	"go.k6.io/typedview/js"
	"go.k6.io/typedview/lib/fsext"
)

// cmdRun handles the `typedview run` sub-command
type cmdRun struct {
	gs *state.GlobalState
}

func (c *cmdRun) run(cmd *cobra.Command, args []string) error {
	conf, err := getConsolidatedConfig(c.gs, getConfig(cmd.Flags()))
	if err != nil {
		return err
	}

	cwd, err := c.gs.Getwd()
	if err != nil {
		return err
	}
	runner := js.New(c.gs.Logger, c.gs.FS, &url.URL{Scheme: "file", Path: filepath.ToSlash(cwd)}, conf.Options)
	if conf.ConsoleOutput.String != "" {
		runner.ConsoleOutput = fsext.Abs(cwd, conf.ConsoleOutput.String)
	}

	ctx, cancel := context.WithCancel(c.gs.Ctx)
	defer cancel()
	stopSignalHandling := handleTestAbortSignals(c.gs, func() {
		c.gs.Logger.Debug("Interrupting the running script...")
		cancel()
	})
	defer stopSignalHandling()

	for _, filename := range args {
		start := time.Now()
		if err = c.runScript(ctx, runner, filename); err != nil {
			return err
		}
		c.gs.Logger.WithFields(logrus.Fields{
			"script":   filename,
			"duration": time.Since(start),
		}).Debug("Script run completed")
	}
	return nil
}

func (c *cmdRun) runScript(ctx context.Context, runner *js.Runner, filename string) error {
	if filename != "-" {
		return runner.RunFile(ctx, filename)
	}
	src, err := io.ReadAll(c.gs.Stdin)
	if err != nil {
		return fmt.Errorf("couldn't read the script from stdin: %w", err)
	}
	return runner.RunSource(ctx, "-", string(src))
}

func (c *cmdRun) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.AddFlagSet(optionFlagSet())
	flags.AddFlagSet(configFlagSet())
	return flags
}

func getCmdRun(gs *state.GlobalState) *cobra.Command {
	c := &cmdRun{gs: gs}

	exampleText := getExampleText(gs, `
  # Run a single script.
  {{.}} run script.js

  # Run a script read from the standard input.
  cat script.js | {{.}} run -

  # Give buffers created without a maxByteLength room for 1 MiB.
  {{.}} run --max-byte-length 1048576 script.js

  # Log every resize and send console output to a file.
  {{.}} run -v --log-resizes --console-output=console.log script.js`[1:])

	runCmd := &cobra.Command{
		Use:   "run [flags] script [script...]",
		Short: "Run scripts",
		Long: `Run scripts.

Every script runs in a fresh runtime with the typedview module available
through require("typedview"). A script may export a default function,
which is called after the script body. Use "-" to read a script from the
standard input.`,
		Example: exampleText,
		Args:    cobra.MinimumNArgs(1),
		RunE:    c.run,
	}

	runCmd.Flags().SortFlags = false
	runCmd.Flags().AddFlagSet(c.flagSet())

	return runCmd
}
