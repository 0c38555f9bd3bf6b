package sse

import (
	"context"
	"time"

	"inbox-dashboard/internal/logger"
)

// SessionStore is the part of the dashboard registry the reaper needs
type SessionStore interface {
	ReapIdle(now time.Time, maxIdle time.Duration, keep func(sessionID string) bool) int
	Len() int
}

// SessionReaperJob periodically releases dashboards of sessions that went
// idle. Sessions with an open event stream are kept alive.
type SessionReaperJob struct {
	sessions   SessionStore
	sseManager *SSEManager
	logger     *logger.Logger
	interval   time.Duration
	maxIdle    time.Duration

	// Context for managing the job lifecycle
	ctx    context.Context
	cancel context.CancelFunc
}

// NewSessionReaperJob creates a new reaper that checks every maxIdle/2
func NewSessionReaperJob(sessions SessionStore, sseManager *SSEManager, maxIdle time.Duration, logger *logger.Logger) *SessionReaperJob {
	interval := maxIdle / 2
	if interval < time.Second {
		interval = time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &SessionReaperJob{
		sessions:   sessions,
		sseManager: sseManager,
		logger:     logger,
		interval:   interval,
		maxIdle:    maxIdle,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// RunOnce reaps idle sessions - exported for testing
func (j *SessionReaperJob) RunOnce(now time.Time) int {
	reaped := j.sessions.ReapIdle(now, j.maxIdle, j.sseManager.HasSessionConnection)
	if reaped > 0 {
		j.logger.Info("Released", reaped, "idle dashboard sessions,", j.sessions.Len(), "remaining")
	}
	return reaped
}

// Start runs the reaper until Stop is called
func (j *SessionReaperJob) Start() {
	j.logger.Info("Starting session reaper with interval:", j.interval.String())

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			j.RunOnce(now)
		case <-j.ctx.Done():
			j.logger.Info("Session reaper stopped")
			return
		}
	}
}

// Stop stops the reaper
func (j *SessionReaperJob) Stop() {
	j.cancel()
}

// GetInterval returns the reap interval
func (j *SessionReaperJob) GetInterval() time.Duration {
	return j.interval
}
