package cmd

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.k6.io/typedview/cmd/state"
	"go.k6.io/typedview/errext"
	"go.k6.io/typedview/errext/exitcodes"
	"go.k6.io/typedview/js/conformance"
	"go.k6.io/typedview/lib/fsext"
)

// cmdConformance handles the `typedview conformance` sub-command
type cmdConformance struct {
	gs *state.GlobalState

	timeout         time.Duration
	concurrency     int
	blockedFeatures []string
	showPassed      bool
}

func (c *cmdConformance) run(cmd *cobra.Command, args []string) error {
	conf, err := getConsolidatedConfig(c.gs, getConfig(cmd.Flags()))
	if err != nil {
		return err
	}

	runner := conformance.NewRunner(c.gs.Logger, c.gs.FS, conf.Options)
	runner.Timeout = c.timeout
	runner.Concurrency = c.concurrency
	if cmd.Flags().Changed("blocked-feature") {
		runner.BlockedFeatures = c.blockedFeatures
	}

	ctx, cancel := context.WithCancel(c.gs.Ctx)
	defer cancel()
	stopSignalHandling := handleTestAbortSignals(c.gs, func() {
		c.gs.Logger.Debug("Stopping the conformance run...")
		cancel()
	})
	defer stopSignalHandling()

	cwd, err := c.gs.Getwd()
	if err != nil {
		return err
	}
	dir := args[0]
	report, err := runner.RunDir(ctx, fsext.Abs(cwd, dir))
	if report != nil {
		printToStdout(c.gs, c.summary(dir, report))
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errext.WithExitCodeIfNone(err, exitcodes.ExternalAbort)
		}
		return errext.WithExitCodeIfNone(err, exitcodes.GenericEngine)
	}

	if failed := report.Count(conformance.Failed); failed > 0 {
		return errext.WithExitCodeIfNone(
			fmt.Errorf("%d of %d conformance runs failed", failed, len(report.Results)),
			exitcodes.ConformanceFailed,
		)
	}
	return nil
}

func (c *cmdConformance) summary(dir string, report *conformance.Report) string {
	noColor := c.gs.Flags.NoColor || !c.gs.Stdout.IsTTY
	green := getColor(noColor, color.FgGreen)
	red := getColor(noColor, color.FgRed, color.Bold)
	faint := getColor(noColor, color.Faint)

	var sb strings.Builder
	if c.showPassed {
		for _, res := range report.Results {
			if res.Status != conformance.Failed {
				fmt.Fprintf(&sb, "  %s %s %s\n", green.Sprint("✓"), resultName(res), faint.Sprint(res.Reason))
			}
		}
	}
	for _, res := range report.Failures() {
		fmt.Fprintf(&sb, "  %s %s\n", red.Sprint("✗"), resultName(res))
		sb.WriteString(indent(res.Reason, "      ") + "\n")
	}

	passed := green.Sprintf("%d passed", report.Count(conformance.Passed))
	failed := fmt.Sprintf("%d failed", report.Count(conformance.Failed))
	if !report.OK() {
		failed = red.Sprint(failed)
	}
	skipped := faint.Sprintf("%d skipped", report.Count(conformance.Skipped))

	fmt.Fprintf(&sb, "\n  %s: %s, %s, %s in %s\n", dir, passed, failed, skipped,
		report.Duration.Round(time.Millisecond))
	return sb.String()
}

func resultName(res conformance.Result) string {
	if res.Strict {
		return res.Name + " (strict mode)"
	}
	return res.Name
}

func (c *cmdConformance) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.AddFlagSet(optionFlagSet())
	flags.DurationVar(&c.timeout, "timeout", conformance.DefaultTimeout, "the longest a single fixture run may take")
	flags.IntVar(&c.concurrency, "concurrency", runtime.GOMAXPROCS(0), "how many fixtures to run at the same time")
	flags.StringSliceVar(&c.blockedFeatures, "blocked-feature", conformance.DefaultBlockedFeatures,
		"skip fixtures using this feature, can be given multiple times")
	flags.BoolVar(&c.showPassed, "show-passed", false, "list the passed and skipped fixtures too")
	return flags
}

func getCmdConformance(gs *state.GlobalState) *cobra.Command {
	c := &cmdConformance{gs: gs}

	exampleText := getExampleText(gs, `
  # Run the fixtures in a directory.
  {{.}} conformance ./fixtures

  # Run them one at a time, with a tighter timeout.
  {{.}} conformance --concurrency 1 --timeout 2s ./fixtures

  # Only skip fixtures using SharedArrayBuffer.
  {{.}} conformance --blocked-feature SharedArrayBuffer ./fixtures`[1:])

	conformanceCmd := &cobra.Command{
		Use:   "conformance [flags] dir",
		Short: "Run test262 style fixtures",
		Long: `Run test262 style fixtures.

Every .js file under the directory, outside of harness directories, is a
fixture with a YAML front matter block. Fixtures run in sloppy and strict
mode unless their flags say otherwise, and the ones using a blocked feature
are skipped. The command fails when any run fails.`,
		Example: exampleText,
		Args:    cobra.ExactArgs(1),
		RunE:    c.run,
	}

	conformanceCmd.Flags().SortFlags = false
	conformanceCmd.Flags().AddFlagSet(c.flagSet())

	return conformanceCmd
}
