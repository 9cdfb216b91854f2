package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/ports"
)

// SubmitAnalysisUseCase accepts an uploaded PDF, validates it, and starts a
// pipeline run in its own goroutine. One upload equals one job.
type SubmitAnalysisUseCase struct {
	baseCtx   context.Context
	registry  ports.JobRegistry
	storage   ports.ObjectStorage
	runner    ports.PipelineRunner
	logs      ports.LogStream
	inspector ports.PDFInspector
	events    ports.EventPublisher
	observer  ports.RunObserver

	defaultPages int
	maxPages     int
}

func NewSubmitAnalysisUseCase(
	baseCtx context.Context,
	registry ports.JobRegistry,
	storage ports.ObjectStorage,
	runner ports.PipelineRunner,
	logs ports.LogStream,
	inspector ports.PDFInspector,
	events ports.EventPublisher,
	observer ports.RunObserver,
	defaultPages, maxPages int,
) *SubmitAnalysisUseCase {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	if events == nil {
		events = nopEvents{}
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if defaultPages <= 0 {
		defaultPages = 3
	}
	if maxPages <= 0 {
		maxPages = 50
	}
	return &SubmitAnalysisUseCase{
		baseCtx:      baseCtx,
		registry:     registry,
		storage:      storage,
		runner:       runner,
		logs:         logs,
		inspector:    inspector,
		events:       events,
		observer:     observer,
		defaultPages: defaultPages,
		maxPages:     maxPages,
	}
}

func (uc *SubmitAnalysisUseCase) Submit(ctx context.Context, filename string, pages int, body io.Reader) (*domain.Job, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", errors.New("no file selected"))
	}
	if pages == 0 {
		pages = uc.defaultPages
	}
	if pages < 0 || pages > uc.maxPages {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload",
			fmt.Errorf("pages must be between 1 and %d", uc.maxPages))
	}

	key := sanitizeFilename(filename)
	if err := uc.storage.Save(ctx, key, body); err != nil {
		return nil, fmt.Errorf("save uploaded pdf: %w", err)
	}

	count, err := uc.inspector.PageCount(uc.storage.Path(key))
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "inspect pdf", err)
	}
	if count <= 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "inspect pdf",
			fmt.Errorf("document has no pages"))
	}
	if pages > count {
		pages = count
	}

	now := time.Now().UTC()
	job := &domain.Job{
		ID:        uuid.NewString(),
		Filename:  key,
		PDFPath:   uc.storage.Path(key),
		Pages:     pages,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	uc.registry.Create(job)
	uc.notify(job.ID, domain.StatusPending)

	go uc.run(*job)

	return job, nil
}

func (uc *SubmitAnalysisUseCase) run(job domain.Job) {
	start := time.Now()
	uc.observer.RunStarted()

	uc.setStatus(job.ID, domain.StatusRunning, "")
	uc.emit(job.ID, "Processing PDF: "+job.Filename)

	runErr := uc.runner.Run(uc.baseCtx, &job, func(line string) {
		uc.emit(job.ID, line)
	})

	// The page relies on this exact final line to stop its log stream.
	uc.emit(job.ID, "Pipeline complete!")

	status := domain.StatusCompleted
	errMessage := ""
	if runErr != nil {
		status = domain.StatusFailed
		errMessage = runErr.Error()
	}
	uc.setStatus(job.ID, status, errMessage)
	uc.logs.End(job.ID)
	uc.observer.RunFinished(status, time.Since(start))
}

func (uc *SubmitAnalysisUseCase) emit(jobID, line string) {
	uc.logs.Publish(jobID, line)
	uc.observer.LogLine()
}

func (uc *SubmitAnalysisUseCase) setStatus(jobID string, status domain.JobStatus, errMessage string) {
	uc.registry.UpdateStatus(jobID, status, errMessage)
	uc.notify(jobID, status)
}

// notify is best effort: a broker outage must not fail an analysis run.
func (uc *SubmitAnalysisUseCase) notify(jobID string, status domain.JobStatus) {
	if err := uc.events.PublishJobStatus(uc.baseCtx, jobID, status); err != nil {
		slog.Warn("job_event_publish_failed", "job_id", jobID, "status", status, "error", err)
	}
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "document.pdf"
	}
	return base
}

type nopEvents struct{}

func (nopEvents) PublishJobStatus(context.Context, string, domain.JobStatus) error { return nil }

type nopObserver struct{}

func (nopObserver) RunStarted() {}

func (nopObserver) RunFinished(domain.JobStatus, time.Duration) {}

func (nopObserver) LogLine() {}
