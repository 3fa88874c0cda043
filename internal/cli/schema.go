package cli

import (
	"fmt"

	"github.com/samvad-hq/http-methods/internal/app"
	"github.com/samvad-hq/http-methods/internal/params"
	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of a --params file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := params.Schema()
			if err != nil {
				return exitErr(app.ExitConfigError, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return nil
		},
	}
}
