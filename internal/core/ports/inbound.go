package ports

import (
	"context"
	"io"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
)

// JobSubmitter is the inbound contract for starting an analysis run from an
// uploaded PDF.
type JobSubmitter interface {
	Submit(ctx context.Context, filename string, pages int, body io.Reader) (*domain.Job, error)
}

// JobTracker is the inbound read model for job state and artifacts.
type JobTracker interface {
	Status(ctx context.Context, jobID string) domain.JobStatus
	Results(ctx context.Context, jobID string) (domain.Result, error)
	OpenArtifact(ctx context.Context, filename string) (io.ReadCloser, error)
}
