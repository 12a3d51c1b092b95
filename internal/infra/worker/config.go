// Package worker holds the runtime plumbing of the ingestion worker binary:
// its environment configuration, health endpoints and process-level metrics.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"ainews-feed/internal/pkg/config"
)

// Config controls the ingestion worker process. All fields have safe
// defaults; LoadConfigFromEnv never fails and falls back per field instead.
type Config struct {
	// CronSchedule is the five-field cron expression driving scheduled runs.
	CronSchedule string

	// Timezone is the IANA zone name the schedule is evaluated in.
	Timezone string

	// RunTimeout bounds a single collection run. Range: 1m to 4h.
	RunTimeout time.Duration

	// AutoStart triggers one collection run immediately on startup.
	AutoStart bool

	// SourcesPath is the YAML file listing the feed sources to poll.
	SourcesPath string

	// HealthPort serves the liveness and readiness probes. Range: 1024-65535.
	HealthPort int

	// MetricsPort serves the Prometheus scrape endpoint. Range: 1024-65535.
	MetricsPort int
}

// DefaultConfig returns the production defaults: a collection run every
// 30 minutes in UTC with a 10-minute timeout, plus one run at startup.
func DefaultConfig() Config {
	return Config{
		CronSchedule: "*/30 * * * *",
		Timezone:     "UTC",
		RunTimeout:   10 * time.Minute,
		AutoStart:    true,
		SourcesPath:  "configs/sources.yaml",
		HealthPort:   9091,
		MetricsPort:  9090,
	}
}

// Validate reports all invalid fields at once.
func (c *Config) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.RunTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("run timeout: %w", err))
	}
	if c.SourcesPath == "" {
		errs = append(errs, fmt.Errorf("sources path: cannot be empty"))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv builds the worker configuration from environment
// variables, falling back to DefaultConfig per field when a value is unset
// or invalid. Every fallback is logged and counted; the returned config is
// always valid and the error is always nil.
//
// Environment variables:
//
//	CRON_SCHEDULE       cron expression (default "*/30 * * * *")
//	WORKER_TIMEZONE     IANA zone name (default "UTC")
//	RUN_TIMEOUT         duration string, 1m-4h (default "10m")
//	AUTO_START          boolean (default "true")
//	SOURCES_PATH        path to the sources YAML (default "configs/sources.yaml")
//	WORKER_HEALTH_PORT  integer 1024-65535 (default 9091)
//	WORKER_METRICS_PORT integer 1024-65535 (default 9090)
func LoadConfigFromEnv(logger *slog.Logger, metrics *Metrics) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := DefaultConfig()
	fallbackApplied := false

	applyWarnings := func(field string, result config.LoadResult) {
		if !result.FallbackApplied {
			return
		}
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field)
		for _, warning := range result.Warnings {
			logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	applyWarnings("cron_schedule", result)

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	applyWarnings("timezone", result)

	result = config.LoadEnvDuration("RUN_TIMEOUT", cfg.RunTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, 4*time.Hour)
	})
	cfg.RunTimeout = result.Value.(time.Duration)
	applyWarnings("run_timeout", result)

	result = config.LoadEnvBool("AUTO_START", cfg.AutoStart)
	cfg.AutoStart = result.Value.(bool)
	applyWarnings("auto_start", result)

	cfg.SourcesPath = config.LoadEnvString("SOURCES_PATH", cfg.SourcesPath)

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	applyWarnings("health_port", result)

	result = config.LoadEnvInt("WORKER_METRICS_PORT", cfg.MetricsPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.MetricsPort = result.Value.(int)
	applyWarnings("metrics_port", result)

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
