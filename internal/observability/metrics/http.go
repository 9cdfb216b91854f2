package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
)

type ServerMetrics struct {
	registry *prometheus.Registry
	service  string

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	runsTotal         *prometheus.CounterVec
	runDuration       *prometheus.HistogramVec
	runsInFlight      prometheus.Gauge
	logLinesTotal     prometheus.Counter
	streamSubscribers prometheus.Gauge
}

func NewServerMetrics(service string) *ServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tenk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tenk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tenk",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tenk",
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Total finished pipeline runs by terminal status.",
		},
		[]string{"service", "status"},
	)
	runDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tenk",
			Subsystem: "jobs",
			Name:      "run_duration_seconds",
			Help:      "Pipeline run duration in seconds by terminal status.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"service", "status"},
	)
	runsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tenk",
			Subsystem: "jobs",
			Name:      "runs_in_flight",
			Help:      "Number of pipeline runs currently executing.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	logLinesTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tenk",
			Subsystem: "jobs",
			Name:      "log_lines_total",
			Help:      "Total pipeline log lines broadcast to job streams.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	streamSubscribers := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tenk",
			Subsystem: "stream",
			Name:      "subscribers",
			Help:      "Number of connected SSE log subscribers.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		runsTotal,
		runDuration,
		runsInFlight,
		logLinesTotal,
		streamSubscribers,
	)

	return &ServerMetrics{
		registry:          registry,
		service:           service,
		requestTotal:      requestTotal,
		requestDuration:   requestDuration,
		requestInFlight:   requestInFlight,
		runsTotal:         runsTotal,
		runDuration:       runDuration,
		runsInFlight:      runsInFlight,
		logLinesTotal:     logLinesTotal,
		streamSubscribers: streamSubscribers,
	}
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			m.service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(m.service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses per-job and per-file path segments so label
// cardinality stays bounded.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/status/"):
		return "/api/status/{job_id}"
	case strings.HasPrefix(path, "/api/logs/"):
		return "/api/logs/{job_id}"
	case strings.HasPrefix(path, "/api/results/"):
		return "/api/results/{job_id}"
	case strings.HasPrefix(path, "/api/download/"):
		return "/api/download/{filename}"
	default:
		return path
	}
}

// RunStarted, RunFinished and LogLine implement ports.RunObserver.

func (m *ServerMetrics) RunStarted() {
	m.runsInFlight.Inc()
}

func (m *ServerMetrics) RunFinished(status domain.JobStatus, duration time.Duration) {
	m.runsInFlight.Dec()
	m.runsTotal.WithLabelValues(m.service, string(status)).Inc()
	m.runDuration.WithLabelValues(m.service, string(status)).Observe(duration.Seconds())
}

func (m *ServerMetrics) LogLine() {
	m.logLinesTotal.Inc()
}

func (m *ServerMetrics) StreamOpened() {
	m.streamSubscribers.Inc()
}

func (m *ServerMetrics) StreamClosed() {
	m.streamSubscribers.Dec()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
