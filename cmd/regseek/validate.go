package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/regseek/pkg/core"
	"github.com/aretw0/regseek/pkg/report"
)

func newValidateCmd(g *globalFlags) *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Validate one artifact or the whole corpus",
		Long: `Validate runs the rule battery and prints per-file results and a summary.

Exit status is 0 when every document is valid, 1 when any is invalid and 2
when any critical methodology issue was found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, g)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, " RegSeek Validation System")

			var rep *core.Report
			if len(args) == 1 {
				fmt.Fprintf(out, " Validating: %s\n", args[0])
				rep, err = app.Service.ValidateFile(cmd.Context(), args[0])
				if errors.Is(err, core.ErrTemplate) {
					fmt.Fprintf(out, " Skipping template: %s\n", args[0])
					return nil
				}
				detailed = true
			} else {
				fmt.Fprintln(out, " Validating all artifacts...")
				rep, err = app.Service.ValidateCorpus(cmd.Context())
			}
			if err != nil {
				return err
			}

			p := report.NewPrinter(out)
			p.FileResults(rep.Results, detailed)
			p.Summary(rep.Results, app.Policy)
			p.Verdict(rep.Results)

			if code := report.ExitCode(rep.Results); code != report.ExitOK {
				return exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "List every valid file with its warnings and recommendations")
	return cmd
}
