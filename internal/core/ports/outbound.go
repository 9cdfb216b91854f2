package ports

import (
	"context"
	"io"
	"time"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
)

// JobRegistry holds job state. Jobs are transient; implementations are not
// expected to survive a restart.
type JobRegistry interface {
	Create(job *domain.Job)
	Get(jobID string) (*domain.Job, bool)
	UpdateStatus(jobID string, status domain.JobStatus, errMessage string)
}

// ObjectStorage stores uploaded PDFs and pipeline artifacts. Path exposes
// the on-disk location because the pipeline subprocess reads the same
// directory.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Path(key string) string
}

// PipelineRunner executes the external analysis pipeline for one job and
// forwards every output line to emit as it appears.
type PipelineRunner interface {
	Run(ctx context.Context, job *domain.Job, emit func(line string)) error
}

// LogStream broadcasts pipeline log lines per job.
type LogStream interface {
	Publish(jobID, line string)
	// Subscribe returns all buffered lines plus a live channel. The channel is
	// closed when the job's stream ends. cancel detaches the subscriber.
	Subscribe(jobID string) (replay []string, live <-chan string, cancel func())
	// End closes the job's stream; live subscribers drain and terminate.
	End(jobID string)
}

// PDFInspector validates an uploaded file before a run is accepted.
type PDFInspector interface {
	PageCount(path string) (int, error)
}

// EventPublisher notifies external consumers about job status transitions.
// Implementations may be no-ops when eventing is not configured.
type EventPublisher interface {
	PublishJobStatus(ctx context.Context, jobID string, status domain.JobStatus) error
}

// RunObserver receives lifecycle signals for observability.
type RunObserver interface {
	RunStarted()
	RunFinished(status domain.JobStatus, duration time.Duration)
	LogLine()
}
