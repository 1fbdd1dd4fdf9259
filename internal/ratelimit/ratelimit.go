package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides if a request from key should be allowed. When allowed is
// false, retryAfterSec may be set for the Retry-After response header
// (0 = omit).
type Limiter interface {
	Allow(key string) (allowed bool, retryAfterSec int)
}

// Noop allows all requests.
type Noop struct{}

func (Noop) Allow(string) (bool, int) { return true, 0 }

// InMemory is a sliding-window rate limiter per key. State lives in the
// process, so it only protects a single instance.
type InMemory struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewInMemory allows up to limit requests per key per window.
func NewInMemory(limit int, window time.Duration) *InMemory {
	return &InMemory{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (r *InMemory) Allow(key string) (allowed bool, retryAfterSec int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)

	times := r.hits[key]
	keep := 0
	for keep < len(times) && !times[keep].After(cutoff) {
		keep++
	}
	times = times[keep:]

	if len(times) >= r.limit {
		r.hits[key] = times
		wait := times[0].Add(r.window).Sub(now)
		if wait > 0 {
			retryAfterSec = int(wait.Seconds())
			if retryAfterSec < 1 {
				retryAfterSec = 1
			}
		}
		return false, retryAfterSec
	}

	r.hits[key] = append(times, now)
	return true, 0
}
