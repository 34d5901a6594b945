package main

import (
	"fmt"

	"github.com/fabric8-services/fabric8-tracker/controller"
	"github.com/spf13/cobra"
)

// newVersionCommand prints the build information set by the build script.
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build commit and time",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Git Commit SHA: ", controller.Commit)
			fmt.Fprintln(cmd.OutOrStdout(), "UTC Build Time: ", controller.BuildTime)
		},
	}
}
