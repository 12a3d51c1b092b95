// Package scheduler drives periodic collection runs on a cron schedule.
//
// The scheduler moves between idle (no timer armed), armed (timer set,
// waiting for the next tick), paused (timer disarmed, configuration and
// statistics retained) and running (a collection cycle in flight). At most
// one run executes at a time, whether triggered by the timer or manually.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"ainews-feed/internal/observability/metrics"
	pkgconfig "ainews-feed/internal/pkg/config"
	"ainews-feed/internal/usecase/ingest"
)

// ErrAlreadyRunning is the message reported when a trigger collides with an
// in-flight run. The conflicting trigger is rejected, never queued.
const ErrAlreadyRunning = "collection already in progress"

// statsWindow is the number of recent run durations kept for the rolling
// average.
const statsWindow = 10

// State is the scheduler lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateArmed   State = "armed"
	StatePaused  State = "paused"
	StateRunning State = "running"
)

// Runner executes one collection cycle.
type Runner interface {
	Run(ctx context.Context) ingest.RunResult
}

// Config holds the scheduler's timing configuration.
type Config struct {
	// Schedule is a five-field cron expression.
	Schedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	Timezone string

	// RunTimeout bounds a single collection cycle.
	RunTimeout time.Duration

	// AutoStart arms the timer immediately on Start instead of waiting for
	// an explicit trigger.
	AutoStart bool
}

// DefaultConfig returns the production scheduler configuration.
func DefaultConfig() Config {
	return Config{
		Schedule:   "*/30 * * * *",
		Timezone:   "UTC",
		RunTimeout: 10 * time.Minute,
		AutoStart:  true,
	}
}

// Validate checks the configuration fields.
func (c Config) Validate() error {
	if err := pkgconfig.ValidateCronSchedule(c.Schedule); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	if err := pkgconfig.ValidateTimezone(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	if c.RunTimeout <= 0 {
		return fmt.Errorf("run timeout: must be positive")
	}
	return nil
}

// RunStats is a snapshot of the scheduler's run history.
type RunStats struct {
	TotalRuns            int       `json:"totalRuns"`
	SuccessfulRuns       int       `json:"successfulRuns"`
	FailedRuns           int       `json:"failedRuns"`
	TotalItemsIngested   int       `json:"totalItemsIngested"`
	LastRunAt            time.Time `json:"lastRunAt"`
	LastRunDurationMs    int64     `json:"lastRunDurationMs"`
	AverageRunDurationMs int64     `json:"averageRunDurationMs"`
	IsRunning            bool      `json:"isRunning"`
}

// Scheduler owns the cron timer and the mutual exclusion around runs.
type Scheduler struct {
	runner Runner
	logger *slog.Logger

	mu    sync.Mutex // guards cron, cfg and state transitions
	cron  *cron.Cron
	cfg   Config
	state State

	running atomic.Bool // true while a run is in flight

	statsMu sync.Mutex
	stats   RunStats
	recent  []time.Duration // last runs, capped at statsWindow
}

// New creates a scheduler in the idle state. The configuration is validated
// but no timer is armed until Start.
func New(runner Runner, cfg Config, logger *slog.Logger) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		runner: runner,
		logger: logger,
		cfg:    cfg,
		state:  StateIdle,
	}, nil
}

// Start arms the cron timer. An already armed timer is replaced, never
// duplicated. With AutoStart set, one run is kicked off immediately in the
// background.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.armLocked(); err != nil {
		return err
	}

	if s.cfg.AutoStart {
		go s.execute("startup")
	}

	s.logger.Info("scheduler started",
		slog.String("schedule", s.cfg.Schedule),
		slog.String("timezone", s.cfg.Timezone))
	return nil
}

// armLocked replaces any existing cron timer with one built from the current
// configuration. The caller must hold s.mu.
func (s *Scheduler) armLocked() error {
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	s.disarmLocked()

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(s.cfg.Schedule, func() {
		s.execute("cron")
	}); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}
	c.Start()

	s.cron = c
	s.state = StateArmed
	return nil
}

// disarmLocked stops and discards the cron timer if one is armed.
// In-flight runs are not cancelled. The caller must hold s.mu.
func (s *Scheduler) disarmLocked() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

// Stop disarms the timer and returns the scheduler to idle. It is
// idempotent and never cancels a run already in flight.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disarmLocked()
	s.state = StateIdle
	s.logger.Info("scheduler stopped")
}

// Pause disarms the timer but keeps the configuration and statistics, so a
// later Resume picks up where the schedule left off.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateArmed {
		return
	}
	s.disarmLocked()
	s.state = StatePaused
	s.logger.Info("scheduler paused")
}

// Resume re-arms a paused scheduler. Resuming a non-paused scheduler is a
// no-op.
func (s *Scheduler) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return nil
	}
	if err := s.armLocked(); err != nil {
		return err
	}
	s.logger.Info("scheduler resumed")
	return nil
}

// UpdateConfig swaps the timing configuration. An armed scheduler is
// re-armed with the new schedule immediately; an idle or paused one keeps
// its state and picks the new config up on the next Start or Resume.
func (s *Scheduler) UpdateConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("scheduler config: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg = cfg
	if s.state == StateArmed {
		if err := s.armLocked(); err != nil {
			return err
		}
	}
	s.logger.Info("scheduler config updated",
		slog.String("schedule", cfg.Schedule),
		slog.String("timezone", cfg.Timezone))
	return nil
}

// Config returns a snapshot of the current configuration.
func (s *Scheduler) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	if s.running.Load() {
		return StateRunning
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TriggerManually runs one collection cycle outside the schedule. It shares
// the run body, and therefore the mutual exclusion, with timer-driven runs.
func (s *Scheduler) TriggerManually() ingest.RunResult {
	return s.execute("manual")
}

// execute is the single run body for cron ticks and manual triggers. The
// CAS on the running flag guarantees at most one cycle in flight; losers
// are rejected immediately, never queued.
func (s *Scheduler) execute(trigger string) ingest.RunResult {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("run rejected, previous run still in flight",
			slog.String("trigger", trigger))
		metrics.RecordRun("conflict", 0)
		return ingest.RunResult{Success: false, Error: ErrAlreadyRunning}
	}
	defer s.running.Store(false)

	s.mu.Lock()
	timeout := s.cfg.RunTimeout
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("run started", slog.String("trigger", trigger))
	result := s.runner.Run(ctx)
	s.recordRun(result)

	return result
}

// recordRun folds one run result into the statistics.
func (s *Scheduler) recordRun(result ingest.RunResult) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	s.stats.TotalRuns++
	if result.Success {
		s.stats.SuccessfulRuns++
	} else {
		s.stats.FailedRuns++
	}
	s.stats.TotalItemsIngested += result.ItemsIngested
	s.stats.LastRunAt = time.Now()
	s.stats.LastRunDurationMs = result.DurationMs

	s.recent = append(s.recent, time.Duration(result.DurationMs)*time.Millisecond)
	if len(s.recent) > statsWindow {
		s.recent = s.recent[len(s.recent)-statsWindow:]
	}
}

// Stats returns a snapshot of the run history, with the rolling average
// computed over the most recent runs.
func (s *Scheduler) Stats() RunStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	stats := s.stats
	stats.IsRunning = s.running.Load()

	if len(s.recent) > 0 {
		var total time.Duration
		for _, d := range s.recent {
			total += d
		}
		stats.AverageRunDurationMs = (total / time.Duration(len(s.recent))).Milliseconds()
	}
	return stats
}
