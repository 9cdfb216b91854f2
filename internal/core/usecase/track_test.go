package usecase

import (
	"context"
	"io"
	"testing"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
)

func trackFixture() (*TrackJobsUseCase, *fakeRegistry, *fakeStorage) {
	registry := newFakeRegistry()
	storage := newFakeStorage()
	return NewTrackJobsUseCase(registry, storage), registry, storage
}

func TestStatusUnknownForMissingJob(t *testing.T) {
	uc, _, _ := trackFixture()
	if got := uc.Status(context.Background(), "missing"); got != domain.StatusUnknown {
		t.Fatalf("Status() = %s, want unknown", got)
	}
}

func TestResultsOnlyForCompletedJobs(t *testing.T) {
	uc, registry, _ := trackFixture()
	registry.Create(&domain.Job{ID: "j1", Filename: "tenk_2024.pdf", Status: domain.StatusRunning})

	if _, err := uc.Results(context.Background(), "j1"); !domain.IsKind(err, domain.ErrJobNotFinished) {
		t.Fatalf("expected not-finished error, got %v", err)
	}
	if _, err := uc.Results(context.Background(), "nope"); !domain.IsKind(err, domain.ErrJobNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	registry.UpdateStatus("j1", domain.StatusCompleted, "")
	result, err := uc.Results(context.Background(), "j1")
	if err != nil {
		t.Fatalf("Results() error = %v", err)
	}
	if result.Narrative != "tenk_2024_narrative.txt" || result.Sankey != "tenk_2024_sankey.html" {
		t.Fatalf("unexpected result names: %+v", result)
	}
}

func TestOpenArtifact(t *testing.T) {
	uc, _, storage := trackFixture()
	storage.files["tenk_2024_narrative.txt"] = []byte("Once upon a fiscal year")

	rc, err := uc.OpenArtifact(context.Background(), "tenk_2024_narrative.txt")
	if err != nil {
		t.Fatalf("OpenArtifact() error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "Once upon a fiscal year" {
		t.Fatalf("unexpected artifact body %q", data)
	}

	if _, err := uc.OpenArtifact(context.Background(), "absent.txt"); !domain.IsKind(err, domain.ErrArtifactNotFound) {
		t.Fatalf("expected artifact-not-found, got %v", err)
	}
}

func TestOpenArtifactStripsDirectories(t *testing.T) {
	uc, _, storage := trackFixture()
	storage.files["passwd"] = []byte("x")

	rc, err := uc.OpenArtifact(context.Background(), "../../etc/passwd")
	if err != nil {
		t.Fatalf("traversal should degrade to base name, got %v", err)
	}
	rc.Close()
}
