// Package ratelimit provides an injectable per-key rate limiter so callers
// are not tied to a process-local map; a multi-process deployment can swap
// in an implementation backed by a shared store.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision is the outcome of a limiter check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter answers whether an action keyed by e.g. user ID may proceed.
type Limiter interface {
	Check(key string) Decision
}

// KeyedLimiter is the default in-memory Limiter, one token bucket per key.
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	interval time.Duration
}

var _ Limiter = (*KeyedLimiter)(nil)

// NewKeyed builds a limiter allowing count actions per interval for each
// distinct key.
func NewKeyed(count int, interval time.Duration) *KeyedLimiter {
	per := interval / time.Duration(count)
	return &KeyedLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(per),
		burst:    count,
		interval: per,
	}
}

// Check consumes one token for the key when available.
func (k *KeyedLimiter) Check(key string) Decision {
	k.mu.Lock()
	lim, ok := k.limiters[key]
	if !ok {
		lim = rate.NewLimiter(k.limit, k.burst)
		k.limiters[key] = lim
	}
	k.mu.Unlock()

	now := time.Now()
	allowed := lim.Allow()

	remaining := int(lim.Tokens())
	if remaining < 0 {
		remaining = 0
	}

	resetAt := now
	if remaining == 0 {
		resetAt = now.Add(k.interval)
	}

	return Decision{Allowed: allowed, Remaining: remaining, ResetAt: resetAt}
}
