package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resultsJSON bool

func newResultsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results <job-id>",
		Short: "Print the artifact names of a completed job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newAPIClient().Results(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("results for %s: %w", args[0], err)
			}
			if resultsJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Printf("narrative: %s\n", result.Narrative)
			fmt.Printf("sankey:    %s\n", result.Sankey)
			return nil
		},
	}

	cmd.Flags().BoolVar(&resultsJSON, "json", false, "Print results as JSON")

	return cmd
}
