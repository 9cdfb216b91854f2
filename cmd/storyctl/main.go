package main

import (
	"errors"
	"fmt"
	"os"
)

const (
	ExitSuccess   = 0 // Command finished and, for analyze, the run completed
	ExitRunFailed = 1 // The analysis pipeline reported failure
	ExitError     = 2 // Usage, transport, or runtime error
)

// RunFailedError marks a job that reached the failed status; the command
// itself worked.
type RunFailedError struct {
	JobID string
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("analysis job %s failed", e.JobID)
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var runErr *RunFailedError
		if errors.As(err, &runErr) {
			os.Exit(ExitRunFailed)
		}
		os.Exit(ExitError)
	}
}
