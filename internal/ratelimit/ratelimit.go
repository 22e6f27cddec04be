// Package ratelimit bounds how many chat turns a user may submit per
// rolling 60-second window. The window uses lazy eviction: stale
// timestamps are dropped on each check rather than by a background
// timer. State is process-local, so the limiter only guards a single
// replica.
package ratelimit

import (
	"sync"
	"time"
)

const window = 60 * time.Second

type Limiter struct {
	mu    sync.Mutex
	limit int
	now   func() time.Time
	turns map[int64][]time.Time
}

// New creates a limiter allowing limit turns per user per minute.
func New(limit int) *Limiter {
	return NewWithClock(limit, time.Now)
}

// NewWithClock injects the clock so tests can simulate elapsed time.
func NewWithClock(limit int, now func() time.Time) *Limiter {
	return &Limiter{
		limit: limit,
		now:   now,
		turns: make(map[int64][]time.Time),
	}
}

func (l *Limiter) Limit() int { return l.limit }

// Allow reports whether the user may submit another turn now. A denied
// attempt is not recorded against the window.
func (l *Limiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	fresh := l.turns[userID][:0]
	for _, t := range l.turns[userID] {
		if now.Sub(t) < window {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= l.limit {
		l.turns[userID] = fresh
		return false
	}

	l.turns[userID] = append(fresh, now)
	return true
}

// Sweep drops users whose windows are fully expired. Called periodically
// by the maintenance scheduler to keep the map from growing with idle
// users.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for userID, ts := range l.turns {
		active := false
		for _, t := range ts {
			if now.Sub(t) < window {
				active = true
				break
			}
		}
		if !active {
			delete(l.turns, userID)
		}
	}
}
