// The worker binary runs the headless ingestion loop: it polls the
// configured feed sources on a cron schedule, classifies what it collects
// and keeps the results in its in-memory store. It exposes health probes
// and Prometheus metrics but no query API; use cmd/api for the full server.
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ainews-feed/internal/config"
	"ainews-feed/internal/infra/adapter/persistence/memory"
	"ainews-feed/internal/infra/scheduler"
	"ainews-feed/internal/infra/scraper"
	workerPkg "ainews-feed/internal/infra/worker"
	"ainews-feed/internal/usecase/classify"
	"ainews-feed/internal/usecase/fetch"
	"ainews-feed/internal/usecase/ingest"
)

func main() {
	logger := initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerMetrics := workerPkg.NewMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Bool("auto_start", workerConfig.AutoStart),
		slog.Int("health_port", workerConfig.HealthPort))

	sources, err := config.LoadSources(workerConfig.SourcesPath)
	if err != nil {
		logger.Error("failed to load sources", slog.Any("error", err))
		os.Exit(1)
	}
	workerMetrics.SetSourcesConfigured(len(sources))
	logger.Info("sources loaded",
		slog.String("path", workerConfig.SourcesPath),
		slog.Int("count", len(sources)))

	store := memory.NewItemStore(memory.DefaultConfig(), logger)
	classifier := classify.NewService(classify.DefaultConfig(), logger)
	feedFetcher := scraper.NewRSSFetcher(createHTTPClient(), logger)
	collector := fetch.NewService(feedFetcher, logger)
	ingestService := ingest.NewService(collector, classifier, store, sources, logger)

	sched, err := scheduler.New(ingestService, scheduler.Config{
		Schedule:   workerConfig.CronSchedule,
		Timezone:   workerConfig.Timezone,
		RunTimeout: workerConfig.RunTimeout,
		AutoStart:  workerConfig.AutoStart,
	}, logger)
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	startMetricsServer(ctx, logger, fmt.Sprintf(":%d", workerConfig.MetricsPort))

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone))

	<-ctx.Done()

	healthServer.SetReady(false)
	sched.Stop()
	logger.Info("worker stopped")
}

// initLogger initializes the process-wide structured logger.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// createHTTPClient builds the shared feed-fetching client with connection
// pooling and TLS 1.2+ enforced.
func createHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}
