package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionJanitor periodically drops quiz sessions nobody touched for a while.
type SessionJanitor struct {
	sessions IdleSessionSweeper
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger
}

func NewSessionJanitor(sessions IdleSessionSweeper, ttl, interval time.Duration, logger *zap.Logger) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the sweep on schedule until ctx is done.
func (j *SessionJanitor) Start(ctx context.Context) error {
	if j.ttl <= 0 || j.interval <= 0 {
		j.logger.Info("session janitor disabled")
		<-ctx.Done()
		return nil
	}

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(fmt.Sprintf("@every %s", j.interval), j.Sweep)
	if err != nil {
		return fmt.Errorf("add sweep job: %w", err)
	}

	c.Start()
	j.logger.Info("session janitor started",
		zap.Duration("ttl", j.ttl),
		zap.Duration("interval", j.interval),
	)

	<-ctx.Done()

	<-c.Stop().Done()
	j.logger.Info("session janitor stopped")
	return nil
}

// Sweep removes idle sessions once.
func (j *SessionJanitor) Sweep() {
	removed := j.sessions.DeleteIdle(j.ttl)
	active := j.sessions.Len()

	if removed > 0 {
		j.logger.Info("idle quiz sessions removed",
			zap.Int("count", removed),
			zap.Int("active", active),
		)
		return
	}
	j.logger.Debug("session sweep done", zap.Int("active", active))
}
