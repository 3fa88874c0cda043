package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "http-methods version %s\n", deps.Version)
			if deps.BuildTime != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", deps.BuildTime)
			}
		},
	}
}
