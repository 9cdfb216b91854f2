// Package pipeline launches the external analysis executable and relays its
// output line by line. The pipeline itself (PDF extraction, narrative,
// Sankey) is someone else's program; this process only runs and observes it.
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
)

type Runner struct {
	argv []string
}

// NewRunner takes the command prefix, e.g. ["python3", "pipeline.py"]. The
// run appends --input-pdf and --pages for each job.
func NewRunner(argv []string) (*Runner, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("pipeline command is empty")
	}
	return &Runner{argv: argv}, nil
}

func (r *Runner) Run(ctx context.Context, job *domain.Job, emit func(line string)) error {
	args := append(append([]string(nil), r.argv[1:]...),
		"--input-pdf", job.PDFPath,
		"--pages", strconv.Itoa(job.Pages),
	)

	cmd := exec.CommandContext(ctx, r.argv[0], args...)
	cmd.Env = append(os.Environ(), "PYTHONIOENCODING=utf-8")

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		return fmt.Errorf("start pipeline: %w", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			emit(strings.TrimSpace(scanner.Text()))
		}
	}()

	waitErr := cmd.Wait()
	pw.Close()
	<-done

	if waitErr != nil {
		if ee, ok := waitErr.(*exec.ExitError); ok {
			return fmt.Errorf("pipeline exited %d", ee.ExitCode())
		}
		return fmt.Errorf("run pipeline: %w", waitErr)
	}
	return nil
}
