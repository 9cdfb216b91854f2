package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/client"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL      string
	requestTimeout time.Duration
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storyctl",
		Short: "storyctl - run 10-K storytelling analyses from the terminal",
		Long: `storyctl drives a 10-K storytelling server without the browser page.

It uploads annual-report PDFs, follows the pipeline log stream, and fetches
the narrative and Sankey artifacts a completed run produces.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:5000", "Base URL of the storytelling server")
	cmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 30*time.Second, "Timeout for individual API requests")

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newLogsCommand())
	cmd.AddCommand(newResultsCommand())
	cmd.AddCommand(newDownloadCommand())

	return cmd
}

func newAPIClient() *client.Client {
	return client.New(serverURL, client.WithHTTPClient(&http.Client{Timeout: requestTimeout}))
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
