package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHomeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Print the home directory used for configuration files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := a.home.Get()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), home)
			return nil
		},
	}
}
