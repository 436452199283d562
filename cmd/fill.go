// -- cmd/fill.go --
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formpilot-cli/internal/orchestrator"
)

var (
	fillSkipOptional        bool
	fillIncludeDemographics bool
	fillNoFocus             bool
)

var fillCmd = &cobra.Command{
	Use:   "fill <url>",
	Short: "Detect the application form at the URL and fill it from your profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

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

		opts := fillOptionsFromConfig()
		if cmd.Flags().Changed("skip-optional") {
			opts.SkipOptional = fillSkipOptional
		}
		if fillIncludeDemographics {
			opts.SkipDemographics = false
		}
		if fillNoFocus {
			opts.FocusFirst = false
		}

		// An interrupt requests a cooperative stop; a second one kills the
		// context outright.
		go func() {
			<-ctx.Done()
			rt.engine.Stop()
		}()

		result, err := rt.engine.StartAutoFill(ctx, opts)
		var missing *orchestrator.MissingFieldsError
		if errors.As(err, &missing) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cannot fill: required fields have no value in your profile:")
			for _, f := range missing.Fields {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%s)\n", f.Label, f.Name)
			}
			return errors.New("profile is incomplete for this form")
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, f := range result.FilledFields {
			fmt.Fprintf(out, "  filled  %-20s %s\n", f.Name, f.Value)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  failed  %-20s %s\n", e.Name, e.Message)
		}
		status := "completed"
		if result.Stopped {
			status = "stopped"
		}
		fmt.Fprintf(out, "Fill %s: %d filled, %d failed (session %s)\n",
			status, result.FilledCount, result.ErrorCount, result.SessionID)

		rt.logger.Info("fill session finished",
			zap.String("session_id", result.SessionID),
			zap.Bool("success", result.Success))
		if !result.Success {
			return errors.New("some fields could not be filled")
		}
		return nil
	},
}

func init() {
	fillCmd.Flags().BoolVar(&fillSkipOptional, "skip-optional", false, "only fill required fields")
	fillCmd.Flags().BoolVar(&fillIncludeDemographics, "include-demographics", false, "also fill self-identification fields your profile answers")
	fillCmd.Flags().BoolVar(&fillNoFocus, "no-focus", false, "do not scroll to the first field before filling")
	rootCmd.AddCommand(fillCmd)
}
