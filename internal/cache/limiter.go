package cache

import (
	"context"
	"sync"
	"time"
)

// Limiter allows one event per key per window.
type Limiter interface {
	// Allow reports whether an event for key may proceed and, if so,
	// starts a new window for it.
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)
	// Release ends the current window for key early.
	Release(ctx context.Context, key string) error
}

// MemoryLimiter is a process-local Limiter for single-instance deployments
// and tests.
type MemoryLimiter struct {
	mu        sync.Mutex
	lastCall  map[string]time.Time
	lastSweep time.Time
	maxKeys   int
	now       func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		lastCall: make(map[string]time.Time),
		maxKeys:  10000,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.lastCall[key]; ok && now.Sub(last) < window {
		return false, nil
	}
	l.lastCall[key] = now

	// drop stale keys, at most once per window
	if len(l.lastCall) > l.maxKeys && now.Sub(l.lastSweep) >= window {
		l.lastSweep = now
		for k, t := range l.lastCall {
			if now.Sub(t) >= window {
				delete(l.lastCall, k)
			}
		}
	}
	return true, nil
}

func (l *MemoryLimiter) Release(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.lastCall, key)
	l.mu.Unlock()
	return nil
}
