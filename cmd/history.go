// -- cmd/history.go --
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past fill sessions from the local audit log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newOfflineEngine()
		if err != nil {
			return err
		}

		if historyClear {
			if err := engine.ClearHistory(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		}

		entries, err := engine.History(historyLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No fill sessions recorded.")
			return nil
		}
		for _, e := range entries {
			status := "ok"
			if !e.Success {
				status = "failed"
			}
			fmt.Fprintf(out, "%s  %-30s  %2d filled  %2d errors  %s\n",
				formatTimestamp(e.Timestamp), e.Domain, e.FilledCount, e.ErrorCount, status)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "wipe the audit log")
	rootCmd.AddCommand(historyCmd)
}
