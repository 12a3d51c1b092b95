package worker

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	metricsOnce sync.Once
	testMetrics *Metrics
)

// Prometheus metrics register globally, so all tests share one instance.
func sharedMetrics() *Metrics {
	metricsOnce.Do(func() {
		testMetrics = NewMetrics()
	})
	return testMetrics
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "*/30 * * * *", cfg.CronSchedule)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 10*time.Minute, cfg.RunTimeout)
	assert.True(t, cfg.AutoStart)
}

func TestConfigValidate_CollectsAllErrors(t *testing.T) {
	cfg := Config{
		CronSchedule: "nope",
		Timezone:     "Mars/Olympus_Mons",
		RunTimeout:   -time.Second,
		SourcesPath:  "",
		HealthPort:   80,
		MetricsPort:  70000,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cron schedule")
	assert.Contains(t, err.Error(), "timezone")
	assert.Contains(t, err.Error(), "run timeout")
	assert.Contains(t, err.Error(), "sources path")
	assert.Contains(t, err.Error(), "health port")
	assert.Contains(t, err.Error(), "metrics port")
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadConfigFromEnv(discardLogger(), sharedMetrics())

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadConfigFromEnv_ValidOverrides(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "0 */6 * * *")
	t.Setenv("WORKER_TIMEZONE", "Asia/Tokyo")
	t.Setenv("RUN_TIMEOUT", "25m")
	t.Setenv("AUTO_START", "false")
	t.Setenv("SOURCES_PATH", "/etc/ainews/sources.yaml")
	t.Setenv("WORKER_HEALTH_PORT", "8081")
	t.Setenv("WORKER_METRICS_PORT", "8082")

	cfg, err := LoadConfigFromEnv(discardLogger(), sharedMetrics())

	require.NoError(t, err)
	assert.Equal(t, "0 */6 * * *", cfg.CronSchedule)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)
	assert.Equal(t, 25*time.Minute, cfg.RunTimeout)
	assert.False(t, cfg.AutoStart)
	assert.Equal(t, "/etc/ainews/sources.yaml", cfg.SourcesPath)
	assert.Equal(t, 8081, cfg.HealthPort)
	assert.Equal(t, 8082, cfg.MetricsPort)
}

func TestLoadConfigFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CRON_SCHEDULE", "whenever")
	t.Setenv("WORKER_TIMEZONE", "nowhere")
	t.Setenv("RUN_TIMEOUT", "10h")
	t.Setenv("WORKER_HEALTH_PORT", "80")

	cfg, err := LoadConfigFromEnv(discardLogger(), sharedMetrics())

	require.NoError(t, err, "loading is fail-open")
	def := DefaultConfig()
	assert.Equal(t, def.CronSchedule, cfg.CronSchedule)
	assert.Equal(t, def.Timezone, cfg.Timezone)
	assert.Equal(t, def.RunTimeout, cfg.RunTimeout)
	assert.Equal(t, def.HealthPort, cfg.HealthPort)
	require.NoError(t, cfg.Validate())
}

func TestHealthServer_Probes(t *testing.T) {
	h := NewHealthServer(":0", discardLogger())

	rec := httptest.NewRecorder()
	h.handleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	h.SetReady(true)
	rec = httptest.NewRecorder()
	h.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h.SetReady(false)
	rec = httptest.NewRecorder()
	h.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetrics_Recording(t *testing.T) {
	m := sharedMetrics()
	m.SetSourcesConfigured(4)
	m.RecordLastSuccess()
}
