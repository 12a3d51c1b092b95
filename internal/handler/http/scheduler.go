package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ainews-feed/internal/handler/http/respond"
	"ainews-feed/internal/infra/scheduler"
	"ainews-feed/internal/observability/logging"
)

// SchedulerStatsHandler serves GET /scheduler/stats.
type SchedulerStatsHandler struct {
	Scheduler *scheduler.Scheduler
	Logger    *slog.Logger
}

func (h SchedulerStatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"state": h.Scheduler.State(),
		"stats": h.Scheduler.Stats(),
	})
}

// SchedulerControlHandler serves the POST /scheduler/{action} endpoints:
// start, stop, pause, resume and trigger.
type SchedulerControlHandler struct {
	Scheduler *scheduler.Scheduler
	Action    string
	Logger    *slog.Logger
}

func (h SchedulerControlHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	switch h.Action {
	case "start":
		if err := h.Scheduler.Start(); err != nil {
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}
	case "stop":
		h.Scheduler.Stop()
	case "pause":
		h.Scheduler.Pause()
	case "resume":
		if err := h.Scheduler.Resume(); err != nil {
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}
	case "trigger":
		result := h.Scheduler.TriggerManually()
		if !result.Success && result.Error == scheduler.ErrAlreadyRunning {
			respond.JSON(w, http.StatusConflict, result)
			return
		}
		respond.JSON(w, http.StatusOK, result)
		return
	default:
		respond.SafeError(w, http.StatusNotFound, fmt.Errorf("action %q is invalid", h.Action))
		return
	}

	logger.Info("scheduler action applied", slog.String("action", h.Action))
	respond.JSON(w, http.StatusOK, map[string]any{
		"state": h.Scheduler.State(),
	})
}

// schedulerConfigRequest carries a scheduler configuration update.
type schedulerConfigRequest struct {
	Schedule     string `json:"schedule"`
	Timezone     string `json:"timezone"`
	RunTimeoutMs int64  `json:"runTimeoutMs"`
}

// SchedulerConfigHandler serves PUT /scheduler/config. An armed scheduler is
// re-armed with the new parameters immediately.
type SchedulerConfigHandler struct {
	Scheduler *scheduler.Scheduler
	Logger    *slog.Logger
}

func (h SchedulerConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	var req schedulerConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, fmt.Errorf("request body is invalid"))
		return
	}

	cfg := h.Scheduler.Config()
	if req.Schedule != "" {
		cfg.Schedule = req.Schedule
	}
	if req.Timezone != "" {
		cfg.Timezone = req.Timezone
	}
	if req.RunTimeoutMs > 0 {
		cfg.RunTimeout = time.Duration(req.RunTimeoutMs) * time.Millisecond
	}

	if err := h.Scheduler.UpdateConfig(cfg); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	logger.Info("scheduler config updated",
		slog.String("schedule", cfg.Schedule),
		slog.String("timezone", cfg.Timezone))
	respond.JSON(w, http.StatusOK, map[string]any{
		"schedule":     cfg.Schedule,
		"timezone":     cfg.Timezone,
		"runTimeoutMs": cfg.RunTimeout.Milliseconds(),
		"state":        h.Scheduler.State(),
	})
}

// RegisterScheduler registers the scheduler control endpoints with the mux.
func RegisterScheduler(mux *http.ServeMux, sched *scheduler.Scheduler, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	mux.Handle("GET /scheduler/stats", SchedulerStatsHandler{Scheduler: sched, Logger: logger})
	for _, action := range []string{"start", "stop", "pause", "resume", "trigger"} {
		mux.Handle("POST /scheduler/"+action, SchedulerControlHandler{
			Scheduler: sched,
			Action:    action,
			Logger:    logger,
		})
	}
	mux.Handle("PUT /scheduler/config", SchedulerConfigHandler{Scheduler: sched, Logger: logger})
}
