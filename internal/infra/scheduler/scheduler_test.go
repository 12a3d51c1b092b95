package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ainews-feed/internal/usecase/ingest"
)

// stubRunner counts runs and can block to simulate a slow cycle.
type stubRunner struct {
	mu      sync.Mutex
	results []ingest.RunResult
	calls   atomic.Int32
	block   chan struct{} // when set, Run waits until it is closed
}

func (r *stubRunner) Run(ctx context.Context) ingest.RunResult {
	r.calls.Add(1)
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.results) > 0 {
		result := r.results[0]
		r.results = r.results[1:]
		return result
	}
	return ingest.RunResult{Success: true, ItemsIngested: 1, DurationMs: 5}
}

func testConfig() Config {
	return Config{
		Schedule:   "*/30 * * * *",
		Timezone:   "UTC",
		RunTimeout: time.Minute,
	}
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(&stubRunner{}, Config{Schedule: "not cron", Timezone: "UTC", RunTimeout: time.Minute}, nil)
	assert.Error(t, err)

	_, err = New(&stubRunner{}, Config{Schedule: "* * * * *", Timezone: "Mars/Olympus", RunTimeout: time.Minute}, nil)
	assert.Error(t, err)

	_, err = New(&stubRunner{}, Config{Schedule: "* * * * *", Timezone: "UTC"}, nil)
	assert.Error(t, err, "zero run timeout")
}

func TestStart_ArmsTimer(t *testing.T) {
	s, err := New(&stubRunner{}, testConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, s.State())

	require.NoError(t, s.Start())
	defer s.Stop()
	assert.Equal(t, StateArmed, s.State())
}

func TestStart_ReplacesArmedTimer(t *testing.T) {
	s, err := New(&stubRunner{}, testConfig(), nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer s.Stop()
	first := s.cron
	require.NoError(t, s.Start())

	assert.NotSame(t, first, s.cron, "second Start must replace the timer, not stack a second one")
	assert.Equal(t, StateArmed, s.State())
}

func TestStop_IsIdempotent(t *testing.T) {
	s, err := New(&stubRunner{}, testConfig(), nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	s.Stop()
	s.Stop()
	assert.Equal(t, StateIdle, s.State())
}

func TestPauseResume_KeepsStats(t *testing.T) {
	s, err := New(&stubRunner{}, testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	result := s.TriggerManually()
	require.True(t, result.Success)

	s.Pause()
	assert.Equal(t, StatePaused, s.State())
	assert.Equal(t, 1, s.Stats().TotalRuns, "pausing must not discard stats")

	require.NoError(t, s.Resume())
	assert.Equal(t, StateArmed, s.State())
	assert.Equal(t, 1, s.Stats().TotalRuns)
}

func TestPause_NoOpWhenIdle(t *testing.T) {
	s, err := New(&stubRunner{}, testConfig(), nil)
	require.NoError(t, err)

	s.Pause()
	assert.Equal(t, StateIdle, s.State())
	require.NoError(t, s.Resume())
	assert.Equal(t, StateIdle, s.State())
}

func TestTriggerManually_RunsOnce(t *testing.T) {
	runner := &stubRunner{}
	s, err := New(runner, testConfig(), nil)
	require.NoError(t, err)

	result := s.TriggerManually()

	assert.True(t, result.Success)
	assert.Equal(t, int32(1), runner.calls.Load())

	stats := s.Stats()
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessfulRuns)
	assert.Equal(t, 1, stats.TotalItemsIngested)
}

func TestTriggerManually_RejectsConcurrentRun(t *testing.T) {
	runner := &stubRunner{block: make(chan struct{})}
	s, err := New(runner, testConfig(), nil)
	require.NoError(t, err)

	firstDone := make(chan ingest.RunResult, 1)
	go func() { firstDone <- s.TriggerManually() }()

	// Wait until the first run holds the flag.
	require.Eventually(t, func() bool {
		return s.State() == StateRunning
	}, time.Second, time.Millisecond)

	second := s.TriggerManually()
	assert.False(t, second.Success)
	assert.Equal(t, ErrAlreadyRunning, second.Error)

	close(runner.block)
	first := <-firstDone
	assert.True(t, first.Success)
	assert.Equal(t, int32(1), runner.calls.Load(), "rejected trigger must not queue a run")
}

func TestTriggerManually_ManyConcurrentTriggersRunExactlyOne(t *testing.T) {
	runner := &stubRunner{block: make(chan struct{})}
	s, err := New(runner, testConfig(), nil)
	require.NoError(t, err)

	go s.TriggerManually()
	require.Eventually(t, func() bool {
		return s.State() == StateRunning
	}, time.Second, time.Millisecond)

	var rejected atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if result := s.TriggerManually(); !result.Success {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()
	close(runner.block)

	assert.Equal(t, int32(8), rejected.Load())
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestStats_RollingAverage(t *testing.T) {
	runner := &stubRunner{}
	for i := 0; i < 12; i++ {
		runner.results = append(runner.results, ingest.RunResult{Success: true, DurationMs: int64(i+1) * 10})
	}
	s, err := New(runner, testConfig(), nil)
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		s.TriggerManually()
	}

	stats := s.Stats()
	assert.Equal(t, 12, stats.TotalRuns)
	assert.Equal(t, int64(120), stats.LastRunDurationMs)
	// Average over the last 10 runs: durations 30..120 -> mean 75.
	assert.Equal(t, int64(75), stats.AverageRunDurationMs)
}

func TestStats_CountsFailures(t *testing.T) {
	runner := &stubRunner{results: []ingest.RunResult{
		{Success: false, Error: "all sources down", DurationMs: 3},
		{Success: true, ItemsIngested: 2, DurationMs: 4},
	}}
	s, err := New(runner, testConfig(), nil)
	require.NoError(t, err)

	s.TriggerManually()
	s.TriggerManually()

	stats := s.Stats()
	assert.Equal(t, 2, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessfulRuns)
	assert.Equal(t, 1, stats.FailedRuns)
	assert.Equal(t, 2, stats.TotalItemsIngested)
	assert.False(t, stats.IsRunning)
}

func TestUpdateConfig_RearmsWhileArmed(t *testing.T) {
	s, err := New(&stubRunner{}, testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	defer s.Stop()

	cfg := testConfig()
	cfg.Schedule = "0 * * * *"
	require.NoError(t, s.UpdateConfig(cfg))

	assert.Equal(t, StateArmed, s.State())
	assert.Equal(t, "0 * * * *", s.Config().Schedule)
}

func TestUpdateConfig_RejectsInvalid(t *testing.T) {
	s, err := New(&stubRunner{}, testConfig(), nil)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Schedule = "bogus"
	assert.Error(t, s.UpdateConfig(cfg))
	assert.Equal(t, "*/30 * * * *", s.Config().Schedule, "rejected config must not apply")
}
