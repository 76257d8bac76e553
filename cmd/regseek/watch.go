package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/regseek/pkg/core"
)

func newWatchCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the dataset whenever the corpus changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, g)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			slog.Info("watching corpus, press Ctrl+C to stop", "output", app.Output)
			return app.Service.Watch(ctx, func(outcome *core.BuildOutcome, err error) {
				switch {
				case err != nil:
					slog.Error("rebuild failed", "error", err)
				case outcome.Empty:
					slog.Warn("no artifacts found")
				default:
					slog.Info("dataset rebuilt",
						"artifacts", outcome.Dataset.Total,
						"excluded", outcome.Dataset.BuildInfo.TotalFilesProcessed-outcome.Dataset.Total,
						"malformed", len(outcome.Failures),
					)
				}
			})
		},
	}
}
