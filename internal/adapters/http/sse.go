package httpadapter

import (
	"fmt"
	"net/http"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
)

// streamLogs serves GET /api/logs/{job_id} as server-sent events. Buffered
// lines are replayed first, then live lines until the run ends or the client
// goes away.
func (rt *Router) streamLogs(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")
	if rt.tracker.Status(r.Context(), jobID) == domain.StatusUnknown {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming is not supported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	if rt.metrics != nil {
		rt.metrics.StreamOpened()
		defer rt.metrics.StreamClosed()
	}

	replay, live, cancel := rt.logs.Subscribe(jobID)
	defer cancel()

	for _, line := range replay {
		if err := writeSSELine(w, line); err != nil {
			return
		}
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case line, open := <-live:
			if !open {
				return
			}
			if err := writeSSELine(w, line); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSELine(w http.ResponseWriter, line string) error {
	_, err := fmt.Fprintf(w, "data: %s\n\n", line)
	return err
}
