// Package ratelimit implements an in-process sliding-window limiter keyed by
// caller identity (client IP). State is advisory and per-instance; it makes
// no correctness guarantee across multiple server processes.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter counts requests per identity inside a trailing window. An identity
// whose total observed requests exceed twice the limit is blocked until
// process restart; the blocked set never evicts.
type Limiter struct {
	maxRequests int
	window      time.Duration

	mu       sync.Mutex
	history  map[string][]time.Time
	observed map[string]int
	blocked  map[string]struct{}

	now func() time.Time
}

func New(maxRequests int, window time.Duration) *Limiter {
	if maxRequests <= 0 {
		maxRequests = 100
	}
	if window <= 0 {
		window = time.Hour
	}
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		history:     make(map[string][]time.Time),
		observed:    make(map[string]int),
		blocked:     make(map[string]struct{}),
		now:         time.Now,
	}
}

// Allow reports whether a request from id may proceed, recording it if so.
func (l *Limiter) Allow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.blocked[id]; ok {
		return false
	}

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.history[id][:0]
	for _, t := range l.history[id] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	l.history[id] = recent

	l.observed[id]++
	if l.observed[id] >= 2*l.maxRequests {
		l.blocked[id] = struct{}{}
		delete(l.history, id)
		return false
	}

	if len(recent) >= l.maxRequests {
		return false
	}

	l.history[id] = append(recent, now)
	return true
}

// Blocked reports whether id has been permanently blocked.
func (l *Limiter) Blocked(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.blocked[id]
	return ok
}
