package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"go.k6.io/typedview/cmd/state"
)

const banner = `  _                     _       _
 | |_ _   _ _ __   ___  __| |_   _(_) _____      __
 | __| | | | '_ \ / _ \/ _' \ \ / / |/ _ \ \ /\ / /
 | |_| |_| | |_) |  __/ (_| |\ V /| |  __/\ V  V /
  \__|\__, | .__/ \___|\__,_| \_/ |_|\___| \_/\_/
      |___/|_|`

// getColor returns the requested color, or an uncolored object, depending on
// the value of noColor. The explicit EnableColor() and DisableColor() are
// needed because the library checks os.Stdout itself otherwise...
func getColor(noColor bool, attributes ...color.Attribute) *color.Color {
	if noColor {
		c := color.New()
		c.DisableColor()
		return c
	}

	c := color.New(attributes...)
	c.EnableColor()
	return c
}

func getBanner(noColor bool) string {
	return getColor(noColor, color.FgCyan).Sprint(banner)
}

func printToStdout(gs *state.GlobalState, s string) {
	if _, err := fmt.Fprint(gs.Stdout, s); err != nil {
		gs.Logger.Errorf("could not print '%s' to stdout: %s", s, err.Error())
	}
}

// indent prefixes every line of s with prefix.
func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return prefix + strings.Join(lines, "\n"+prefix)
}
