package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/config"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/infrastructure/stream"
)

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	handler := newTestRouter(config.Config{
		APIRateLimitRPS:   1,
		APIRateLimitBurst: 1,
	}, nil, nil, nil)

	req1 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res1 := httptest.NewRecorder()
	handler.ServeHTTP(res1, req1)
	if res1.Code != http.StatusOK {
		t.Fatalf("first request expected 200, got %d", res1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res2 := httptest.NewRecorder()
	handler.ServeHTTP(res2, req2)
	if res2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request expected 429, got %d", res2.Code)
	}
	if res2.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header for 429 response")
	}
}

func TestRateLimitExemptsLogStreams(t *testing.T) {
	hub := stream.NewHub(0, 0)
	hub.End("job-1")
	tracker := &trackerFake{statuses: map[string]domain.JobStatus{"job-1": domain.StatusCompleted}}
	handler := newTestRouter(config.Config{
		APIRateLimitRPS:   1,
		APIRateLimitBurst: 1,
	}, nil, tracker, hub)

	// Exhaust the bucket.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	streamReq := httptest.NewRequest(http.MethodGet, "/api/logs/job-1", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, streamReq)
	if res.Code != http.StatusOK {
		t.Fatalf("log stream should bypass rate limiting, got %d", res.Code)
	}
}

func TestRateLimitDisabledByDefault(t *testing.T) {
	handler := newTestRouter(config.Config{}, nil, nil, nil)

	for range 5 {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		if res.Code != http.StatusOK {
			t.Fatalf("expected 200 with limiter disabled, got %d", res.Code)
		}
	}
}
