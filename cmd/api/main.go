package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/StanleyyHuynhh/10k-storytelling/internal/adapters/http"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/bootstrap"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/config"
	"github.com/StanleyyHuynhh/10k-storytelling/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("tenk-api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	router := httpadapter.NewRouter(cfg, app.SubmitUC, app.TrackUC, app.Logs, app.Metrics).Handler()
	server := &http.Server{
		Addr:        ":" + cfg.APIPort,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: SSE log streams stay open for the whole run.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort, "results_dir", cfg.ResultsDir)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_error", "error", err)
	}
}
