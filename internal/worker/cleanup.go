// Package worker runs background maintenance loops.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ramakrishnanyadav/legalaid-backend/internal/auth"
)

// SessionCleaner periodically purges expired sessions so the sessions table
// does not grow unbounded. Expired sessions are already invisible to
// resolution; this is housekeeping, not enforcement.
type SessionCleaner struct {
	sessions auth.SessionRepository
	interval time.Duration
}

// NewSessionCleaner creates a SessionCleaner.
func NewSessionCleaner(sessions auth.SessionRepository, interval time.Duration) *SessionCleaner {
	return &SessionCleaner{sessions: sessions, interval: interval}
}

// Start begins the cleanup loop. It blocks until ctx is cancelled.
func (c *SessionCleaner) Start(ctx context.Context) {
	slog.Info("session cleaner started", "interval", c.interval.String())
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session cleaner stopped")
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *SessionCleaner) sweep(ctx context.Context) {
	removed, err := c.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		slog.Error("session cleanup failed", "error", err)
		return
	}
	if removed > 0 {
		slog.Info("expired sessions removed", "count", removed)
	}
}
