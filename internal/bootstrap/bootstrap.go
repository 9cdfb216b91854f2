package bootstrap

import (
	"context"
	"fmt"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/config"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/ports"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/usecase"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/infrastructure/pdfinspect"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/infrastructure/pipeline"
	natsq "github.com/StanleyyHuynhh/10k-storytelling/internal/infrastructure/queue/nats"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/infrastructure/registry"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/infrastructure/resilience"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/infrastructure/storage/localfs"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/infrastructure/stream"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Logs     *stream.Hub
	Metrics  *metrics.ServerMetrics
	SubmitUC ports.JobSubmitter
	TrackUC  ports.JobTracker

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	storage, err := localfs.New(cfg.ResultsDir)
	if err != nil {
		return nil, fmt.Errorf("init results storage: %w", err)
	}

	runner, err := pipeline.NewRunner(cfg.PipelineArgv())
	if err != nil {
		return nil, fmt.Errorf("init pipeline runner: %w", err)
	}

	jobs := registry.NewMemory()
	hub := stream.NewHub(cfg.LogBufferLines, cfg.SubscriberLines)
	serverMetrics := metrics.NewServerMetrics("tenk-api")

	var events ports.EventPublisher = natsq.Noop{}
	closeFn := func() {}
	if cfg.NATSURL != "" {
		publisher, err := natsq.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, natsq.Options{
			ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
		})
		if err != nil {
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		events = publisher
		closeFn = publisher.Close
	}

	submitUC := usecase.NewSubmitAnalysisUseCase(
		ctx,
		jobs,
		storage,
		runner,
		hub,
		pdfinspect.New(),
		events,
		serverMetrics,
		cfg.DefaultPages,
		cfg.MaxPages,
	)
	trackUC := usecase.NewTrackJobsUseCase(jobs, storage)

	return &App{
		Config:   cfg,
		Logs:     hub,
		Metrics:  serverMetrics,
		SubmitUC: submitUC,
		TrackUC:  trackUC,
		closeFn:  closeFn,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
