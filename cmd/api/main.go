// The api binary is the all-in-one server: it runs the scheduled ingestion
// pipeline in-process and serves the query and control API over HTTP. The
// item store is in-memory, so the collector and the API must share a process.
package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ainews-feed/internal/config"
	hhttp "ainews-feed/internal/handler/http"
	"ainews-feed/internal/handler/http/item"
	"ainews-feed/internal/handler/http/requestid"
	"ainews-feed/internal/infra/adapter/persistence/memory"
	"ainews-feed/internal/infra/scheduler"
	"ainews-feed/internal/infra/scraper"
	workerPkg "ainews-feed/internal/infra/worker"
	pkgconfig "ainews-feed/internal/pkg/config"
	"ainews-feed/internal/usecase/classify"
	"ainews-feed/internal/usecase/fetch"
	"ainews-feed/internal/usecase/ingest"
)

const (
	defaultHTTPPort     = 8080
	defaultRateLimit    = 100 // requests per minute per client
	requestTimeout      = 30 * time.Second
	maxRequestBodyBytes = 1 << 20 // 1 MiB
	shutdownTimeout     = 10 * time.Second
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

	sources, err := config.LoadSources(workerConfig.SourcesPath)
	if err != nil {
		logger.Error("failed to load sources", slog.Any("error", err))
		os.Exit(1)
	}
	workerMetrics.SetSourcesConfigured(len(sources))

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

	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer sched.Stop()

	server := buildServer(logger, store, sched)

	go func() {
		logger.Info("api server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api server shutdown failed", slog.Any("error", err))
	}
	logger.Info("api server stopped")
}

// buildServer assembles the route table and middleware chain.
func buildServer(logger *slog.Logger, store *memory.ItemStore, sched *scheduler.Scheduler) *http.Server {
	mux := http.NewServeMux()

	item.Register(mux, store, logger)
	hhttp.RegisterScheduler(mux, sched, logger)

	mux.Handle("GET    /store/stats", hhttp.StoreStatsHandler{Store: store, Logger: logger})
	mux.Handle("GET    /store/integrity", hhttp.StoreIntegrityHandler{Store: store, Logger: logger})

	mux.Handle("GET    /healthz", &hhttp.HealthHandler{Store: store, Version: getVersion()})
	mux.Handle("GET    /livez", hhttp.LiveHandler{})
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())

	rateLimit := pkgconfig.LoadEnvInt("RATE_LIMIT_PER_MINUTE", defaultRateLimit, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 1, 100000)
	}).Value.(int)
	limiter := hhttp.NewRateLimiter(rateLimit, time.Minute)

	var handler http.Handler = mux
	handler = hhttp.Timeout(requestTimeout)(handler)
	handler = hhttp.LimitRequestBody(maxRequestBodyBytes)(handler)
	handler = limiter.Limit(handler)
	handler = hhttp.MetricsMiddleware(handler)
	handler = hhttp.Recover(logger)(handler)
	handler = hhttp.Logging(logger)(handler)
	handler = requestid.Middleware(handler)

	port := pkgconfig.LoadEnvInt("HTTP_PORT", defaultHTTPPort, func(v int) error {
		return pkgconfig.ValidateIntRange(v, 1, 65535)
	}).Value.(int)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
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

func getVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return "dev"
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
