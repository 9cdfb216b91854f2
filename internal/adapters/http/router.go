package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/config"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/ports"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/observability/metrics"
)

type Router struct {
	cfg       config.Config
	submitter ports.JobSubmitter
	tracker   ports.JobTracker
	logs      ports.LogStream
	metrics   *metrics.ServerMetrics
}

func NewRouter(
	cfg config.Config,
	submitter ports.JobSubmitter,
	tracker ports.JobTracker,
	logs ports.LogStream,
	m *metrics.ServerMetrics,
) *Router {
	return &Router{
		cfg:       cfg,
		submitter: submitter,
		tracker:   tracker,
		logs:      logs,
		metrics:   m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /api/upload_pdf", rt.uploadPDF)
	mux.HandleFunc("GET /api/status/{job_id}", rt.status)
	mux.HandleFunc("GET /api/logs/{job_id}", rt.streamLogs)
	mux.HandleFunc("GET /api/results/{job_id}", rt.results)
	mux.HandleFunc("GET /api/download/{filename}", rt.download)
	mux.HandleFunc("GET /{$}", rt.indexPage)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	handler = rateLimitMiddleware(rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, handler)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadPDF(w http.ResponseWriter, r *http.Request) {
	if rt.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(rt.cfg.MaxUploadBytes))
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": fmt.Sprintf("upload exceeds the %d byte limit", maxBytesErr.Limit),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	pages := 0
	if raw := strings.TrimSpace(r.FormValue("pages")); raw != "" {
		pages, err = strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pages must be an integer"})
			return
		}
	}

	job, err := rt.submitter.Submit(r.Context(), fileHeader.Filename, pages, file)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"job_id": job.ID})
}

func (rt *Router) status(w http.ResponseWriter, r *http.Request) {
	status := rt.tracker.Status(r.Context(), r.PathValue("job_id"))
	code := http.StatusOK
	if status == domain.StatusUnknown {
		code = http.StatusNotFound
	}
	writeJSON(w, code, map[string]string{"status": string(status)})
}

func (rt *Router) results(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")
	result, err := rt.tracker.Results(r.Context(), jobID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, result)
	case domain.IsKind(err, domain.ErrJobNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
	case domain.IsKind(err, domain.ErrJobNotFinished):
		// The page keeps polling on this; report where the job actually is.
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": string(rt.tracker.Status(r.Context(), jobID)),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (rt *Router) download(w http.ResponseWriter, r *http.Request) {
	filename := r.PathValue("filename")
	rc, err := rt.tracker.OpenArtifact(r.Context(), filename)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", artifactContentType(filename))
	_, _ = io.Copy(w, rc)
}

func artifactContentType(filename string) string {
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
