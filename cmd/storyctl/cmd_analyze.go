package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/client"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
	"github.com/spf13/cobra"
)

var (
	analyzePages     int
	analyzeInterval  time.Duration
	analyzeOutputDir string
	analyzeNoWait    bool
)

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <report.pdf>",
		Short: "Upload a 10-K PDF and follow the run to completion",
		Long: `Upload a PDF, stream pipeline logs to stderr, and wait for the run to
finish. On completion the narrative and Sankey artifacts are downloaded into
the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: analyzeCommandE,
	}

	cmd.Flags().IntVar(&analyzePages, "pages", 0, "Number of pages to analyze (0 uses the server default)")
	cmd.Flags().DurationVar(&analyzeInterval, "interval", 2*time.Second, "Status poll interval")
	cmd.Flags().StringVarP(&analyzeOutputDir, "output", "o", ".", "Directory to download artifacts into")
	cmd.Flags().BoolVar(&analyzeNoWait, "no-wait", false, "Print the job id and exit without waiting")

	return cmd
}

func analyzeCommandE(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := newAPIClient()

	jobID, err := api.Upload(ctx, args[0], analyzePages)
	if err != nil {
		return fmt.Errorf("upload %s: %w", args[0], err)
	}
	fmt.Printf("job %s started\n", jobID)

	if analyzeNoWait {
		return nil
	}

	final, err := api.Watch(ctx, jobID, client.WatchOptions{
		Interval: analyzeInterval,
		OnLog: func(line string) {
			fmt.Fprintln(os.Stderr, line)
		},
	})
	if err != nil {
		return fmt.Errorf("watch job %s: %w", jobID, err)
	}
	if final == domain.StatusFailed {
		return &RunFailedError{JobID: jobID}
	}

	result, err := api.Results(ctx, jobID)
	if err != nil {
		return fmt.Errorf("fetch results for %s: %w", jobID, err)
	}

	for _, artifact := range []string{result.Narrative, result.Sankey} {
		path, err := downloadArtifact(ctx, api, artifact, analyzeOutputDir)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func downloadArtifact(ctx context.Context, api *client.Client, artifact, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(artifact))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := api.Download(ctx, artifact, f); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("download %s: %w", artifact, err)
	}
	return path, nil
}
