package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/config"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/infrastructure/stream"
)

func TestStreamLogsReplaysFinishedRun(t *testing.T) {
	hub := stream.NewHub(0, 0)
	hub.Publish("job-1", "Processing PDF: tenk_2024.pdf")
	hub.Publish("job-1", "Extracting financials")
	hub.Publish("job-1", "Pipeline complete!")
	hub.End("job-1")

	tracker := &trackerFake{statuses: map[string]domain.JobStatus{"job-1": domain.StatusCompleted}}
	handler := newTestRouter(config.Config{}, nil, tracker, hub)

	req := httptest.NewRequest(http.MethodGet, "/api/logs/job-1", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if ct := res.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}

	body := res.Body.String()
	want := "data: Processing PDF: tenk_2024.pdf\n\n" +
		"data: Extracting financials\n\n" +
		"data: Pipeline complete!\n\n"
	if body != want {
		t.Fatalf("unexpected stream body:\n%q", body)
	}
}

func TestStreamLogsForwardsLiveLines(t *testing.T) {
	hub := stream.NewHub(0, 0)
	tracker := &trackerFake{statuses: map[string]domain.JobStatus{"job-1": domain.StatusRunning}}
	handler := newTestRouter(config.Config{}, nil, tracker, hub)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		req := httptest.NewRequest(http.MethodGet, "/api/logs/job-1", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		done <- res
	}()

	// The handler subscribes on its own schedule; publishing through the hub
	// either lands in the replay or in the live channel, both end up in the
	// response.
	hub.Publish("job-1", "line one")
	hub.Publish("job-1", "Pipeline complete!")
	hub.End("job-1")

	res := <-done
	body := res.Body.String()
	if !strings.Contains(body, "data: line one\n\n") {
		t.Fatalf("missing first line in %q", body)
	}
	if !strings.Contains(body, "data: Pipeline complete!\n\n") {
		t.Fatalf("missing completion line in %q", body)
	}
}

func TestStreamLogsUnknownJob(t *testing.T) {
	handler := newTestRouter(config.Config{}, nil, nil, stream.NewHub(0, 0))

	req := httptest.NewRequest(http.MethodGet, "/api/logs/ghost", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}
