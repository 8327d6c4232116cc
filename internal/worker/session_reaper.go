package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionStore is the part of the report session store the reaper drives
type SessionStore interface {
	ReapIdle(ttl time.Duration) int
	Count() int
}

// SessionReaper tears down report sessions that have been idle longer than
// the TTL, releasing their snapshots
type SessionReaper struct {
	store    SessionStore
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewSessionReaper creates a new session reaper
func NewSessionReaper(store SessionStore, ttl, interval time.Duration, logger *zap.Logger) *SessionReaper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionReaper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the reap loop
func (r *SessionReaper) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("session reaper is already running")
	}
	if r.ttl <= 0 {
		return fmt.Errorf("session reaper needs a positive ttl, got %s", r.ttl)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.isRunning = true

	r.logger.Info("SessionReaper started",
		zap.Duration("ttl", r.ttl),
		zap.Duration("interval", r.interval))

	go r.loop(loopCtx, r.done)
	return nil
}

// Stop ends the loop and waits for it to exit
func (r *SessionReaper) Stop() {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return
	}
	r.isRunning = false
	r.cancel()
	done := r.done
	r.mu.Unlock()

	<-done
	r.logger.Info("SessionReaper stopped")
}

// Name returns the worker name for identification
func (r *SessionReaper) Name() string {
	return "SessionReaper"
}

// ReapOnce runs a single pass and returns how many sessions were removed
func (r *SessionReaper) ReapOnce() int {
	reaped := r.store.ReapIdle(r.ttl)
	if reaped > 0 {
		r.logger.Info("Reaped idle sessions",
			zap.Int("reaped", reaped),
			zap.Int("remaining", r.store.Count()))
	}
	return reaped
}

func (r *SessionReaper) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("Reap loop context cancelled")
			return
		case <-ticker.C:
			r.ReapOnce()
		}
	}
}
