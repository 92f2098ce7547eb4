package memory

import (
	"context"
	"math"
	"sync"
	"time"

	"ricemill-erp/internal/core/ports"

	"golang.org/x/time/rate"
)

// RateLimiter implements ports.RateLimiter with per-key token buckets held
// in process memory. It backs single-instance deployments that run without
// Redis; each bucket refills limit tokens per window.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
	sweepAt time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	limit    int64
	window   time.Duration
	lastSeen time.Time
}

// NewRateLimiter creates an empty in-process limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow consumes one token from key's bucket.
func (l *RateLimiter) Allow(_ context.Context, key string, limit int64, window time.Duration) (*ports.RateLimitResult, error) {
	if window <= 0 {
		window = time.Second
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now, window)

	b, ok := l.buckets[key]
	if !ok || b.limit != limit || b.window != window {
		every := rate.Every(window / time.Duration(max(limit, 1)))
		b = &bucket{limiter: rate.NewLimiter(every, int(limit)), limit: limit, window: window}
		l.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	remaining := int64(math.Max(0, math.Floor(tokens)))

	// Time until the bucket is full again.
	deficit := float64(limit) - tokens
	refill := time.Duration(deficit / float64(b.limiter.Limit()) * float64(time.Second))

	return &ports.RateLimitResult{
		Allowed:   allowed,
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   now.Add(refill).Unix(),
	}, nil
}

// sweep drops buckets idle for more than two windows, at most once per window.
func (l *RateLimiter) sweep(now time.Time, window time.Duration) {
	if now.Before(l.sweepAt) {
		return
	}
	l.sweepAt = now.Add(window)
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > 2*b.window {
			delete(l.buckets, k)
		}
	}
}

// Len reports how many buckets are tracked.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
