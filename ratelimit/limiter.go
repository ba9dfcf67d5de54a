package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Result describes the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
	Policy() Policy
}

// sweepEvery bounds how often idle keys are purged from a MemoryLimiter.
const sweepEvery = 1024

// MemoryLimiter is a process-local sliding-log limiter. Each key keeps the
// timestamps of its accepted calls inside the current window.
type MemoryLimiter struct {
	policy Policy
	now    func() time.Time

	mu    sync.Mutex
	hits  map[string][]time.Time
	calls int
}

func NewMemoryLimiter(policy Policy) *MemoryLimiter {
	return &MemoryLimiter{
		policy: policy,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
	}
}

func (l *MemoryLimiter) Policy() Policy {
	return l.policy
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	now := l.now()
	cutoff := now.Add(-l.policy.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	hits := prune(l.hits[key], cutoff)
	if len(hits) >= l.policy.Limit {
		l.hits[key] = hits
		return Result{
			Limit:      l.policy.Limit,
			RetryAfter: hits[0].Add(l.policy.Window).Sub(now),
		}, nil
	}

	hits = append(hits, now)
	l.hits[key] = hits

	l.calls++
	if l.calls%sweepEvery == 0 {
		l.sweep(cutoff)
	}

	return Result{
		Allowed:   true,
		Limit:     l.policy.Limit,
		Remaining: l.policy.Limit - len(hits),
	}, nil
}

func (l *MemoryLimiter) sweep(cutoff time.Time) {
	for key, hits := range l.hits {
		if hits = prune(hits, cutoff); len(hits) == 0 {
			delete(l.hits, key)
		} else {
			l.hits[key] = hits
		}
	}
}

// prune drops timestamps at or before cutoff. hits is ordered oldest first.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}
