// Package cmd implements the typedview command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.k6.io/typedview/cmd/state"
	"go.k6.io/typedview/errext"
	"go.k6.io/typedview/errext/exitcodes"
	"go.k6.io/typedview/lib/consts"
)

const waitLoggerCloseTimeout = time.Second * 5

// ExecuteWithGlobalState builds the command tree over gs, runs the command
// named by gs.CmdArgs and finishes by calling gs.OSExit with the exit code.
func ExecuteWithGlobalState(gs *state.GlobalState) {
	newRootCommand(gs).execute()
}

// This is to keep all fields needed for the main/root typedview command
type rootCommand struct {
	globalState *state.GlobalState

	cmd           *cobra.Command
	stopLoggersCh chan struct{}
	loggersWg     sync.WaitGroup
}

func newRootCommand(gs *state.GlobalState) *rootCommand {
	c := &rootCommand{
		globalState:   gs,
		stopLoggersCh: make(chan struct{}),
	}
	// the base command when called without any subcommands.
	rootCmd := &cobra.Command{
		Use:               gs.BinaryName,
		Short:             "Run scripts against resizable buffers and the typed array views over them",
		Long:              "\n" + getBanner(gs.Flags.NoColor || !gs.Stdout.IsTTY),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
		Version:           consts.FullVersion(),
	}

	rootCmd.SetVersionTemplate(
		`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "v%s\n" .Version}}`,
	)

	rootCmd.PersistentFlags().AddFlagSet(rootCmdPersistentFlagSet(gs))
	rootCmd.SetArgs(gs.CmdArgs[1:])
	rootCmd.SetOut(gs.Stdout)
	rootCmd.SetErr(gs.Stderr)
	rootCmd.SetIn(gs.Stdin)

	subCommands := []func(*state.GlobalState) *cobra.Command{
		getCmdRun, getCmdConformance, getCmdVersion,
	}
	for _, sc := range subCommands {
		rootCmd.AddCommand(sc(gs))
	}

	c.cmd = rootCmd
	return c
}

func (c *rootCommand) persistentPreRunE(_ *cobra.Command, _ []string) error {
	if err := c.setupLoggers(c.stopLoggersCh); err != nil {
		return err
	}

	c.globalState.Logger.Debugf("typedview version: v%s", consts.FullVersion())
	return nil
}

func (c *rootCommand) execute() {
	ctx, cancel := context.WithCancel(c.globalState.Ctx)
	c.globalState.Ctx = ctx

	exitCode := -1
	defer func() {
		cancel()
		c.stopLoggers()
		c.globalState.OSExit(exitCode)
	}()

	defer func() {
		if r := recover(); r != nil {
			exitCode = int(exitcodes.GoPanic)
			err := fmt.Errorf("unexpected typedview panic: %s\n%s", r, debug.Stack())
			c.globalState.Logger.Error(err)
		}
	}()

	if err := c.cmd.Execute(); err != nil {
		exitCode = exitCodeOf(err)
		errText, fields := errext.Format(err)
		c.globalState.Logger.WithFields(fields).Error(errText)
		return
	}
	exitCode = 0
}

// exitCodeOf returns -1 for errors that don't carry an exit code.
func exitCodeOf(err error) int {
	var ecerr errext.HasExitCode
	if errors.As(err, &ecerr) {
		return int(ecerr.ExitCode())
	}
	return -1
}

func (c *rootCommand) stopLoggers() {
	done := make(chan struct{})
	go func() {
		c.loggersWg.Wait()
		close(done)
	}()
	close(c.stopLoggersCh)
	select {
	case <-done:
	case <-time.After(waitLoggerCloseTimeout):
		c.globalState.FallbackLogger.Errorf("The logger didn't stop in %s", waitLoggerCloseTimeout)
	}
}

func rootCmdPersistentFlagSet(gs *state.GlobalState) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)

	// The flags write straight into gs.Flags, which already holds the values
	// from the environment. DefValue is reset to the real default so the help
	// output doesn't show whatever TYPEDVIEW_* happened to be set.
	withDefault := func(name, def string) {
		flags.Lookup(name).DefValue = def
	}

	flags.StringVar(&gs.Flags.LogOutput, "log-output", gs.Flags.LogOutput,
		"where typedview logs go: 'stderr', 'stdout', 'none' or 'file[=./path.log][,level=info]'")
	withDefault("log-output", gs.DefaultFlags.LogOutput)

	flags.StringVar(&gs.Flags.LogFormat, "log-format", gs.Flags.LogFormat, "log output format: 'text', 'json' or 'raw'")
	withDefault("log-format", gs.DefaultFlags.LogFormat)

	flags.StringVarP(&gs.Flags.ConfigFilePath, "config", "c", gs.Flags.ConfigFilePath, "JSON config file")
	withDefault("config", gs.DefaultFlags.ConfigFilePath)
	must(cobra.MarkFlagFilename(flags, "config"))

	flags.BoolVar(&gs.Flags.NoColor, "no-color", gs.Flags.NoColor, "disable colored output")
	withDefault("no-color", strconv.FormatBool(gs.DefaultFlags.NoColor))

	flags.BoolVarP(&gs.Flags.Verbose, "verbose", "v", gs.Flags.Verbose, "enable verbose logging")
	withDefault("verbose", strconv.FormatBool(gs.DefaultFlags.Verbose))

	return flags
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
