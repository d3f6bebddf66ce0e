package main

import (
	"github.com/lixenwraith/flagconf"
	"github.com/spf13/cobra"
)

func newOverlayCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "overlay",
		Short: "Print the overlay built from -c options",
		Example: `  flagconf overlay -c public=true -c debug.raw=true
  flagconf overlay --format toml -c theme=morning -c 'hosts=[a, b]'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return flagconf.Encode(cmd.OutOrStdout(), format, a.overlay())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", flagconf.FormatJSON, "output format: json, toml or yaml")
	return cmd
}
