package main

import (
	"encoding/json"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
)

func newStateCmd(g *globalFlags) *cobra.Command {
	var scan bool

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Print the internal state of the pipeline components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, g)
			if err != nil {
				return err
			}
			if scan {
				if _, err := app.Service.List(cmd.Context(), ""); err != nil {
					return err
				}
			}

			components := []any{app.Service, app.Engine, app.Repository}
			state := make(map[string]any, len(components))
			for _, c := range components {
				comp, ok := c.(introspection.Component)
				if !ok {
					continue
				}
				if in, ok := c.(introspection.Introspectable); ok {
					state[comp.ComponentType()] = in.State()
				}
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(state)
		},
	}

	cmd.Flags().BoolVar(&scan, "scan", false, "Scan the corpus before reporting")
	return cmd
}
