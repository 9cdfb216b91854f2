// Package client talks to a 10-K storytelling server the same way the
// browser page does: upload a PDF, follow the log stream, poll status, then
// fetch the result artifacts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	executor   *resilience.Executor
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithResilience(cfg resilience.Config) Option {
	return func(c *Client) { c.executor = resilience.NewExecutor(cfg) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		executor:   resilience.NewExecutor(resilience.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload submits a PDF and returns the job id. Uploads are not retried; a
// repeat would start a second run.
func (c *Client) Upload(ctx context.Context, pdfPath string, pages int) (string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(pdfPath))
	if err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	if pages > 0 {
		if err := writer.WriteField("pages", strconv.Itoa(pages)); err != nil {
			return "", fmt.Errorf("build multipart form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload_pdf", &body)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", httpError("upload", resp)
	}

	var out struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.JobID == "" {
		return "", fmt.Errorf("upload response missing job_id")
	}
	return out.JobID, nil
}

func (c *Client) Status(ctx context.Context, jobID string) (domain.JobStatus, error) {
	var status domain.JobStatus
	err := c.executor.Execute(ctx, "client.status", func(ctx context.Context) error {
		resp, err := c.get(ctx, "/api/status/"+jobID)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK, http.StatusNotFound:
			var out struct {
				Status domain.JobStatus `json:"status"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return fmt.Errorf("decode status response: %w", err)
			}
			status = out.Status
			return nil
		default:
			return httpError("status", resp)
		}
	}, classifyClientError)
	if err != nil {
		return domain.StatusUnknown, err
	}
	return status, nil
}

func (c *Client) Results(ctx context.Context, jobID string) (domain.Result, error) {
	var result domain.Result
	err := c.executor.Execute(ctx, "client.results", func(ctx context.Context) error {
		resp, err := c.get(ctx, "/api/results/"+jobID)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			return json.NewDecoder(resp.Body).Decode(&result)
		case http.StatusNotFound:
			return domain.WrapError(domain.ErrJobNotFound, "results", fmt.Errorf("job %s", jobID))
		case http.StatusBadRequest:
			var out struct {
				Status string `json:"status"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&out)
			return domain.WrapError(domain.ErrJobNotFinished, "results",
				fmt.Errorf("job %s is %s", jobID, out.Status))
		default:
			return httpError("results", resp)
		}
	}, classifyClientError)
	return result, err
}

// Download fetches an artifact into w. The body is read fully into a buffer
// inside the retry loop; w sees either the complete artifact or nothing, never
// the partial bytes of a failed attempt.
func (c *Client) Download(ctx context.Context, filename string, w io.Writer) error {
	var body bytes.Buffer
	err := c.executor.Execute(ctx, "client.download", func(ctx context.Context) error {
		resp, err := c.get(ctx, "/api/download/"+filename)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			body.Reset()
			if _, err := io.Copy(&body, resp.Body); err != nil {
				return fmt.Errorf("read artifact: %w", err)
			}
			return nil
		case http.StatusNotFound:
			return domain.WrapError(domain.ErrArtifactNotFound, "download", fmt.Errorf("artifact %s", filename))
		default:
			return httpError("download", resp)
		}
	}, classifyClientError)
	if err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	return resp, nil
}

func httpError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &HTTPStatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
}
