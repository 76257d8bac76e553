package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/regseek"
	"github.com/aretw0/regseek/pkg/report"
)

func newBuildCmd(g *globalFlags) *cobra.Command {
	var (
		output        string
		failOnInvalid bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the valid artifacts into the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []regseek.Option
			if output != "" {
				extra = append(extra, regseek.WithOutput(output))
			}
			app, err := newApp(cmd, g, extra...)
			if err != nil {
				return err
			}

			outcome, err := app.Service.Build(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outcome.Empty {
				fmt.Fprintln(out, " No artifacts found! Please check your artifacts directory structure.")
				return nil
			}

			ds := outcome.Dataset
			fmt.Fprintf(out, " Loaded %d valid artifacts (out of %d total)\n", ds.Total, ds.BuildInfo.TotalFilesProcessed)
			if info, err := os.Stat(app.Output); err == nil {
				fmt.Fprintf(out, " Built artifacts data: %s (%d bytes)\n", app.Output, info.Size())
			}
			report.NewPrinter(out).BuildStats(ds)

			invalid := ds.BuildInfo.TotalFilesProcessed - ds.Total + len(outcome.Failures)
			if failOnInvalid && invalid > 0 {
				slog.Warn("build excluded documents", "count", invalid)
				return exitError{code: report.ExitInvalid}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Dataset destination; .json or .yaml (default site/build/artifacts.json)")
	cmd.Flags().BoolVar(&failOnInvalid, "fail-on-invalid", false, "Exit non-zero when any document was excluded")
	return cmd
}
