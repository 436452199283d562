// -- cmd/detect.go --
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect <url>",
	Short: "Classify the page and list detected application forms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := newRuntimeEngine(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		report, err := rt.engine.Initialize(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if report.FormsFound == 0 {
			fmt.Fprintln(out, "No application forms detected.")
			return nil
		}

		for _, summary := range rt.engine.Forms() {
			fmt.Fprintf(out, "Form #%d  score=%d  fields=%d  required=%d\n",
				summary.Index, summary.Score, summary.FieldCount, summary.RequiredCount)
			for _, name := range summary.FieldNames {
				fmt.Fprintf(out, "    %s\n", name)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
