package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/ports"
)

// TrackJobsUseCase answers status, results and artifact reads for jobs the
// registry knows about.
type TrackJobsUseCase struct {
	registry ports.JobRegistry
	storage  ports.ObjectStorage
}

func NewTrackJobsUseCase(registry ports.JobRegistry, storage ports.ObjectStorage) *TrackJobsUseCase {
	return &TrackJobsUseCase{registry: registry, storage: storage}
}

func (uc *TrackJobsUseCase) Status(_ context.Context, jobID string) domain.JobStatus {
	job, ok := uc.registry.Get(jobID)
	if !ok {
		return domain.StatusUnknown
	}
	return job.Status
}

func (uc *TrackJobsUseCase) Results(_ context.Context, jobID string) (domain.Result, error) {
	job, ok := uc.registry.Get(jobID)
	if !ok {
		return domain.Result{}, domain.WrapError(domain.ErrJobNotFound, "results", fmt.Errorf("job %s", jobID))
	}
	if job.Status != domain.StatusCompleted {
		return domain.Result{}, domain.WrapError(domain.ErrJobNotFinished, "results",
			fmt.Errorf("job %s is %s", jobID, job.Status))
	}
	return domain.ResultFor(job.Filename), nil
}

func (uc *TrackJobsUseCase) OpenArtifact(ctx context.Context, filename string) (io.ReadCloser, error) {
	base := filepath.Base(filename)
	if base == "." || base == ".." || base == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "download", fmt.Errorf("bad filename %q", filename))
	}

	rc, err := uc.storage.Open(ctx, base)
	if err != nil {
		return nil, domain.WrapError(domain.ErrArtifactNotFound, "download", err)
	}
	return rc, nil
}
