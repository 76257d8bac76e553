package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/regseek"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	root        string
	artifacts   string
	config      string
	strictHives bool
	verbose     bool
	logFormat   string
}

// exitError carries a process exit status without an error message.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// newRootCmd builds the command tree. Output goes to the command's writers
// so tests can capture it.
func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "regseek",
		Short: "Validate and compile Windows registry forensic artifacts",
		Long: `RegSeek validates a corpus of registry artifact documents against the
content schema and the anti-checklist methodology, and compiles the valid ones
into a single dataset for the search front-end.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if g.verbose {
				level = slog.LevelDebug
			}

			opts := &slog.HandlerOptions{
				Level: level,
			}
			var handler slog.Handler
			switch g.logFormat {
			case "text":
				handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
			case "json":
				handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
			default:
				return fmt.Errorf("unknown log format %q (want text or json)", g.logFormat)
			}
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&g.root, "root", "", "Project root (default: discovered from the working directory)")
	flags.StringVar(&g.artifacts, "artifacts", "", "Artifacts directory, relative to the root (default \"artifacts\")")
	flags.StringVar(&g.config, "config", "", "Config file (default <root>/regseek.yaml)")
	flags.BoolVar(&g.strictHives, "strict-hives", false, "Treat paths without a known hive prefix as errors")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&g.logFormat, "log-format", "text", "Log format: text or json")

	cmd.AddCommand(
		newBuildCmd(g),
		newValidateCmd(g),
		newListCmd(g),
		newWatchCmd(g),
		newStateCmd(g),
		newVersionCmd(),
	)
	return cmd
}

// newApp wires the pipeline from the persistent flags.
func newApp(cmd *cobra.Command, g *globalFlags, extra ...regseek.Option) (*regseek.App, error) {
	root := g.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting working directory: %w", err)
		}
		root = wd
		if found, err := regseek.FindRoot(wd); err == nil {
			root = found
		}
	}

	opts := []regseek.Option{regseek.WithLogger(slog.Default())}
	if g.artifacts != "" {
		opts = append(opts, regseek.WithArtifactsDir(g.artifacts))
	}
	if g.config != "" {
		opts = append(opts, regseek.WithConfigFile(g.config))
	}
	if cmd.Flags().Changed("strict-hives") {
		opts = append(opts, regseek.WithStrictHives(g.strictHives))
	}
	return regseek.New(root, append(opts, extra...)...)
}

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exit exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	color.New(color.FgRed, color.Bold).Fprintf(stderr, "Error: %v\n", err)
	return 1
}
