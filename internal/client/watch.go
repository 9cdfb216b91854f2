package client

import (
	"context"
	"fmt"
	"time"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
)

type WatchOptions struct {
	// Interval between status polls. Defaults to 2 seconds, matching the
	// browser page.
	Interval time.Duration

	// OnLog receives every streamed log line. Optional.
	OnLog func(line string)

	// OnStatus receives each polled status, including repeats. Optional.
	OnStatus func(status domain.JobStatus)
}

// Watch follows a job to its end: it streams logs in the background and
// polls status until the job reaches a terminal state. The terminal status
// is returned once the log stream has drained.
func (c *Client) Watch(ctx context.Context, jobID string, opts WatchOptions) (domain.JobStatus, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	streamCtx, cancelStream := context.WithCancel(ctx)
	defer cancelStream()

	streamDone := make(chan error, 1)
	go func() {
		streamDone <- c.StreamLogs(streamCtx, jobID, func(line string) {
			if opts.OnLog != nil {
				opts.OnLog(line)
			}
		})
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := c.Status(ctx, jobID)
		if err != nil {
			return domain.StatusUnknown, fmt.Errorf("poll status: %w", err)
		}
		if opts.OnStatus != nil {
			opts.OnStatus(status)
		}
		if status == domain.StatusUnknown {
			return status, domain.WrapError(domain.ErrJobNotFound, "watch", fmt.Errorf("job %s", jobID))
		}
		if status.Terminal() {
			// Give the stream a moment to deliver its tail before
			// reporting. The server closes it right after the final line.
			select {
			case <-streamDone:
			case <-time.After(5 * time.Second):
				cancelStream()
			case <-ctx.Done():
				return status, ctx.Err()
			}
			return status, nil
		}

		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-ticker.C:
		}
	}
}
