package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
)

// StreamLogs follows the server-sent event stream for a job and hands each
// log line to fn. It returns nil once the server closes the stream, which
// happens after the final "Pipeline complete!" line. The stream is followed
// exactly once; reconnecting would replay lines the caller already saw.
func (c *Client) StreamLogs(ctx context.Context, jobID string, fn func(line string)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/logs/"+jobID, nil)
	if err != nil {
		return fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.streamHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("stream request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.WrapError(domain.ErrJobNotFound, "stream logs", fmt.Errorf("job %s", jobID))
	default:
		return httpError("stream logs", resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			// event separator
		case strings.HasPrefix(line, ":"):
			// comment / keep-alive
		case strings.HasPrefix(line, "data: "):
			fn(strings.TrimPrefix(line, "data: "))
		case strings.HasPrefix(line, "data:"):
			fn(strings.TrimPrefix(line, "data:"))
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}

// streamHTTPClient strips the overall timeout so long runs are not cut off
// mid-stream. Callers bound streams with their context instead.
func (c *Client) streamHTTPClient() *http.Client {
	if c.httpClient.Timeout == 0 {
		return c.httpClient
	}
	clone := *c.httpClient
	clone.Timeout = 0
	return &clone
}
