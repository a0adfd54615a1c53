// Package ratelimit caps request throughput per user per fixed time window.
package ratelimit

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Config configures the fixed-window limiter.
type Config struct {
	MaxPerWindow int
	Window       time.Duration
}

// DefaultConfig returns the stock limit of 30 requests per minute.
func DefaultConfig() Config {
	return Config{MaxPerWindow: 30, Window: time.Minute}
}

// Decision is the outcome of one admission check.
type Decision struct {
	Allowed bool
	// RetryAfter is a constant upper bound on the wait, in seconds. The
	// precise remainder of the window is not computed.
	RetryAfter int
}

// Store counts hits per (user, window) bucket. Incr returns the
// post-increment count for the bucket the key falls in.
type Store interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter admits or rejects requests against per-user window counters.
type Limiter struct {
	cfg    Config
	store  Store
	logger *log.Logger
	now    func() time.Time
}

// New builds a limiter over the given store.
func New(cfg Config, store Store, logger *log.Logger) *Limiter {
	if cfg.MaxPerWindow <= 0 {
		cfg.MaxPerWindow = 30
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[RATELIMIT] ", log.LstdFlags)
	}
	return &Limiter{cfg: cfg, store: store, logger: logger, now: time.Now}
}

// SetClock replaces the time source, for tests.
func (l *Limiter) SetClock(now func() time.Time) { l.now = now }

// Allow checks and consumes one request slot. Anonymous callers are always
// admitted: rate limiting is only meaningful per identified user. A store
// failure admits the request (best-effort quota, not an availability gate).
func (l *Limiter) Allow(ctx context.Context, userID string) Decision {
	if userID == "" {
		return Decision{Allowed: true}
	}
	bucket := l.now().Unix() / int64(l.cfg.Window/time.Second)
	key := fmt.Sprintf("%s:%d", userID, bucket)
	count, err := l.store.Incr(ctx, key, l.cfg.Window)
	if err != nil {
		l.logger.Printf("counter increment failed for %s: %v", userID, err)
		return Decision{Allowed: true}
	}
	if count > int64(l.cfg.MaxPerWindow) {
		return Decision{Allowed: false, RetryAfter: int(l.cfg.Window / time.Second)}
	}
	return Decision{Allowed: true}
}
