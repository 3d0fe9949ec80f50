package session

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically drops sessions idle for longer than TTL. It covers
// transports that never deliver an abort signal.
type Sweeper struct {
	store    Expirer
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
	onExpire func(token string)
	now      func() time.Time
}

// NewSweeper returns nil when store does not need sweeping or ttl is not positive.
func NewSweeper(store Store, ttl, interval time.Duration, logger *slog.Logger, onExpire func(token string)) *Sweeper {
	expirer, ok := store.(Expirer)
	if !ok || ttl <= 0 {
		return nil
	}
	if interval <= 0 || interval > ttl {
		interval = ttl
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{store: expirer, ttl: ttl, interval: interval, logger: logger, onExpire: onExpire, now: time.Now}
}

// Sweep runs one expiry pass.
func (s *Sweeper) Sweep(ctx context.Context) []string {
	expired, err := s.store.Expire(ctx, s.now().Add(-s.ttl))
	if err != nil {
		s.logger.Error("session sweep failed", "err", err)
		return nil
	}
	for _, token := range expired {
		s.logger.Warn("session expired without close signal", "session", token, "idle_ttl", s.ttl)
		if s.onExpire != nil {
			s.onExpire(token)
		}
	}
	return expired
}

// Run sweeps every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}
