package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/lixenwraith/flagconf"
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "flagconf",
		Short: "Accumulate -c key=value options into a configuration overlay",
		Long: `flagconf folds repeated -c key=value options into one nested configuration.
Values are coerced: true/false, null, undefined, [a, b] arrays, anything else stays a string.
The first value given for a key wins; later ones are reported and ignored.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	a.option = flagconf.AddOverlayFlag(root.PersistentFlags(), a.acc, "option", "c",
		"set a configuration key, e.g. -c debug.raw=true (repeatable)")

	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		defaultHelp(cmd, args)
		a.printEnvHelp(cmd.OutOrStdout())
	})

	root.AddCommand(newOverlayCmd(a), newMergeCmd(a), newHomeCmd(a))
	return root
}

// printEnvHelp appends the environment variables section to help output
func (a *app) printEnvHelp(w io.Writer) {
	home, err := a.home.Get()
	if err != nil {
		home = fallbackHome
	}
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s  Path for configuration files. Defaults to %s.\n", envHome, green(home))
	fmt.Fprintf(w, "  %s  Log level for option warnings (debug, info, warn, error, off).\n", envLogLevel)
}
