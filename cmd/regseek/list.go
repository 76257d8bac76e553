package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(g *globalFlags) *cobra.Command {
	var (
		listJSON  bool
		filterTag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the artifacts of the corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd, g)
			if err != nil {
				return err
			}

			docs, err := app.Service.List(cmd.Context(), filterTag)
			if err != nil {
				return fmt.Errorf("error listing artifacts: %w", err)
			}

			out := cmd.OutOrStdout()
			if listJSON {
				encoder := json.NewEncoder(out)
				encoder.SetEscapeHTML(false)
				encoder.SetIndent("", "  ")
				if docs == nil {
					return encoder.Encode([]any{})
				}
				return encoder.Encode(docs)
			}

			for _, doc := range docs {
				// Basic output: ID - Title [category]
				title := ""
				if t := doc.String("title"); t != "" {
					title = fmt.Sprintf("- %s ", t)
				}
				fmt.Fprintf(out, "%s %s[%s]\n", doc.ID, title, doc.Category())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&filterTag, "tag", "", "Filter artifacts by search tag")
	return cmd
}
