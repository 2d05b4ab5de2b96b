package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spacesedan/sentilyze/config"
	"github.com/spacesedan/sentilyze/internal/clients"
	"github.com/spacesedan/sentilyze/internal/logging"
	"github.com/spacesedan/sentilyze/internal/metrics"
	"github.com/spacesedan/sentilyze/internal/monitoring"
	"github.com/spacesedan/sentilyze/internal/resources"
	"github.com/spacesedan/sentilyze/internal/sentiment"
	"github.com/spacesedan/sentilyze/internal/server"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("[Main] Exiting", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Settings) error {
	store := resources.NewStore(cfg.DataDir, clients.NewResourceClient(cfg.DownloadTimeout))
	punkt := resources.PunktResource(cfg.PunktBaseURL, cfg.PunktLanguage)

	tokenizer, boot, err := sentiment.LoadTokenizer(ctx, store, punkt, cfg.PunktLanguage)
	if err != nil {
		return fmt.Errorf("failed to prepare sentence tokenizer: %w", err)
	}
	analyzer := sentiment.NewAnalyzer(tokenizer, sentiment.NewVADERScorer(cfg.StripMarkdown))

	resourcesHealthy := &atomic.Bool{}
	resourcesHealthy.Store(true)
	if !boot.Bundled {
		go monitoring.MonitorResourceHealth(ctx, resourcesHealthy, func() bool {
			return store.Present(punkt)
		})
	}

	reg := metrics.NewRegistry()
	srv, err := server.NewServer(analyzer, server.Options{
		Port:         cfg.Port,
		MaxTextBytes: cfg.MaxTextBytes,
		HealthChecks: []server.HealthCheck{{
			Name: "punkt",
			Check: func(context.Context) error {
				if !resourcesHealthy.Load() {
					return errors.New("punkt training data missing from " + store.LocalPath(punkt))
				}
				return nil
			},
		}},
		Metrics:     metrics.New(reg),
		MetricsPage: metrics.Handler(reg),
	})
	if err != nil {
		return err
	}
	if boot.Downloaded {
		srv.AnnounceDownload()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("[Main] Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
