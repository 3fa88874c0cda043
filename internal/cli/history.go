package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/samvad-hq/http-methods/internal/app"
	"github.com/spf13/cobra"
)

func newHistoryCmd(deps Deps) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [invocation-id]",
		Short: "List recent invocations or show one by id",
		Long: `List recent invocations recorded in the history store, newest first, or print
the stored entry for one invocation id. History is kept only when STORAGE_TYPE=bbolt.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := deps.NewInvoker(cmd.Context())
			if err != nil {
				return exitErr(app.ExitConfigError, err)
			}
			defer inv.Close()
			store := inv.History()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				entry, ok, err := store.Get(args[0])
				if err != nil {
					return exitErr(app.ExitConfigError, err)
				}
				if !ok {
					return exitErr(app.ExitRequestFailure, fmt.Errorf("invocation %q not found", args[0]))
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entry)
			}

			entries, err := store.Recent(limit)
			if err != nil {
				return exitErr(app.ExitConfigError, err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "no invocations recorded")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTARTED\tMETHOD\tSTATUS\tOUTCOME")
			for _, e := range entries {
				status := "-"
				if e.Result.HasResponse() {
					status = fmt.Sprint(e.Result.Status)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.ID, e.StartedAt.Format(time.RFC3339), e.Parameters.Method, status, e.Result.Outcome)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to list (0 lists all)")
	return cmd
}
