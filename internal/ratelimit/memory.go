package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count int64
	start time.Time
}

// MemoryLimiter is a fixed-window limiter keyed by client identity, guarded
// by a single mutex. Each key's window resets independently; entries idle
// longer than one window are reclaimed lazily during checks.
type MemoryLimiter struct {
	limit  int64
	window time.Duration

	mu        sync.Mutex
	clients   map[string]*window
	lastSweep time.Time

	now func() time.Time // overridden in tests
}

func NewMemoryLimiter(limit int64, windowDur time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  windowDur,
		clients: make(map[string]*window),
		now:     time.Now,
	}
}

// Check counts the current request against key's window. The ctx parameter is
// unused but kept so both stores satisfy the same interface.
func (l *MemoryLimiter) Check(_ context.Context, key string) (Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
		l.lastSweep = now
	}

	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) >= l.window {
		w = &window{start: now}
		l.clients[key] = w
	}

	resetAt := w.start.Add(l.window)

	if w.count >= l.limit {
		return Result{
			Allowed:    false,
			Remaining:  0,
			ResetAt:    resetAt,
			RetryAfter: resetAt.Sub(now),
		}, nil
	}

	w.count++
	return Result{
		Allowed:   true,
		Remaining: l.limit - w.count,
		ResetAt:   resetAt,
	}, nil
}

// sweep removes windows that expired before the current one began.
// Must be called with mu held.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, w := range l.clients {
		if now.Sub(w.start) >= l.window {
			delete(l.clients, key)
		}
	}
}
