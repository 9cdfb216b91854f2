package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newLogsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logs <job-id>",
		Short: "Stream pipeline log lines for a job",
		Long: `Replay the lines a job has already produced, then follow new ones until
the run finishes. Lines are printed to stdout as they arrive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := newAPIClient().StreamLogs(ctx, args[0], func(line string) {
				fmt.Println(line)
			})
			if err != nil {
				return fmt.Errorf("stream logs for %s: %w", args[0], err)
			}
			return nil
		},
	}
}
