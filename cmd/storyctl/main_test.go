package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
)

// runCommand executes the root command with args and returns captured stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	cmd := newRootCommand()
	cmd.SetArgs(args)
	execErr := cmd.Execute()

	w.Close()
	os.Stdout = old
	out, _ := io.ReadAll(r)
	return string(out), execErr
}

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload_pdf", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, `{"error":"multipart field 'file' is required"}`, http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"job_id": "job-7"})
	})
	mux.HandleFunc("GET /api/status/job-7", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "completed"})
	})
	mux.HandleFunc("GET /api/status/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"status": "unknown"})
	})
	mux.HandleFunc("GET /api/logs/job-7", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: Processing PDF: report.pdf\n\n")
		fmt.Fprint(w, "data: Pipeline complete!\n\n")
	})
	mux.HandleFunc("GET /api/results/job-7", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.Result{
			Narrative: "report_narrative.txt",
			Sankey:    "report_sankey.html",
		})
	})
	mux.HandleFunc("GET /api/download/report_narrative.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Revenue grew this year.")
	})
	mux.HandleFunc("GET /api/download/report_sankey.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>sankey</html>")
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestStatusCommand(t *testing.T) {
	server := newFakeServer(t)

	out, err := runCommand(t, "--server", server.URL, "status", "job-7")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if strings.TrimSpace(out) != "completed" {
		t.Errorf("output = %q, want completed", out)
	}
}

func TestStatusCommandUnknownJob(t *testing.T) {
	server := newFakeServer(t)

	out, err := runCommand(t, "--server", server.URL, "status", "missing")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if strings.TrimSpace(out) != "unknown" {
		t.Errorf("output = %q, want unknown", out)
	}
}

func TestLogsCommand(t *testing.T) {
	server := newFakeServer(t)

	out, err := runCommand(t, "--server", server.URL, "logs", "job-7")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "Processing PDF: report.pdf") || !strings.Contains(out, "Pipeline complete!") {
		t.Errorf("log output missing lines: %q", out)
	}
}

func TestResultsCommandJSON(t *testing.T) {
	server := newFakeServer(t)

	out, err := runCommand(t, "--server", server.URL, "results", "--json", "job-7")
	if err != nil {
		t.Fatalf("results: %v", err)
	}

	var result domain.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if result.Narrative != "report_narrative.txt" {
		t.Errorf("narrative = %q", result.Narrative)
	}
}

func TestDownloadCommand(t *testing.T) {
	server := newFakeServer(t)
	dir := t.TempDir()

	out, err := runCommand(t, "--server", server.URL, "download", "-o", dir, "report_narrative.txt")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if !strings.Contains(out, "wrote ") {
		t.Errorf("output = %q", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "report_narrative.txt"))
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "Revenue grew this year." {
		t.Errorf("downloaded content = %q", data)
	}
}

func TestAnalyzeCommandEndToEnd(t *testing.T) {
	server := newFakeServer(t)
	dir := t.TempDir()

	pdfPath := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	out, err := runCommand(t, "--server", server.URL, "analyze",
		"--interval", "5ms", "-o", dir, pdfPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "job job-7 started") {
		t.Errorf("output missing job id: %q", out)
	}

	for _, name := range []string{"report_narrative.txt", "report_sankey.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("artifact %s not downloaded: %v", name, err)
		}
	}
}

func TestAnalyzeCommandNoWait(t *testing.T) {
	server := newFakeServer(t)

	pdfPath := filepath.Join(t.TempDir(), "report.pdf")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	out, err := runCommand(t, "--server", server.URL, "analyze", "--no-wait", pdfPath)
	if err != nil {
		t.Fatalf("analyze --no-wait: %v", err)
	}
	if strings.TrimSpace(out) != "job job-7 started" {
		t.Errorf("output = %q", out)
	}
}

func TestRunFailedErrorDetection(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &RunFailedError{JobID: "job-9"})

	var runErr *RunFailedError
	if !errors.As(err, &runErr) {
		t.Fatal("expected RunFailedError to be detected through wrapping")
	}
	if runErr.JobID != "job-9" {
		t.Errorf("job id = %q", runErr.JobID)
	}
}
