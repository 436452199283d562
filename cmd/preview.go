// -- cmd/preview.go --
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview <url>",
	Short: "Show what each detected field would receive, without filling anything",
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
		if report.FormsFound == 0 {
			return errors.New("no application form detected on the page")
		}

		previews, err := rt.engine.FieldPreview(ctx, fillOptionsFromConfig())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Form score %d, %d field(s):\n", report.CurrentForm.Score, len(previews))
		for _, p := range previews {
			marker := " "
			if p.Required {
				marker = "*"
			}
			value := p.Value
			switch {
			case !p.WillFill && value == "":
				value = "(skipped: no value)"
			case !p.WillFill:
				value += "  (skipped)"
			}
			fmt.Fprintf(out, "  %s %-20s %-24s %s\n", marker, p.Name, p.Label, value)
		}
		fmt.Fprintln(out, "Values marked with * are required. Sensitive values are masked.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}
