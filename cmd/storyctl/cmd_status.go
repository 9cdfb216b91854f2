package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job-id>",
		Short: "Print the current status of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := newAPIClient().Status(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("status for %s: %w", args[0], err)
			}
			fmt.Println(status)
			return nil
		},
	}
}
