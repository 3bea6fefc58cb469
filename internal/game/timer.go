package game

import (
	"sync"
	"time"
)

// Timer is a countdown derived from a wall-clock start reference rather than
// a ticking counter. Remaining time is always computed from
// (startRef, total, now), so extending a round shifts startRef instead of
// mutating the elapsed time.
type Timer struct {
	mu       sync.Mutex
	total    time.Duration
	startRef time.Time
	active   bool
}

// NewTimer creates a stopped timer with the given total duration.
func NewTimer(total time.Duration) *Timer {
	return &Timer{total: total}
}

// Start begins the countdown from now.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.startRef = time.Now()
	t.active = true
}

// Reset restarts the countdown from now with a new total duration.
// Used for the grace sub-round.
func (t *Timer) Reset(total time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = total
	t.startRef = time.Now()
	t.active = true
}

// Stop halts the countdown. Stopping a stopped timer is a no-op.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = false
}

// Active reports whether the timer is counting.
func (t *Timer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Remaining returns the time left, clamped at zero. A stopped timer reports
// zero regardless of elapsed time so stale reads after a round ends are safe.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remainingLocked()
}

func (t *Timer) remainingLocked() time.Duration {
	if !t.active {
		return 0
	}
	remaining := t.total - time.Since(t.startRef)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired reports whether an active countdown has run out.
func (t *Timer) IsExpired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active && t.remainingLocked() <= 0
}

// Extend shifts the start reference forward, adding time to the countdown.
// Returns false without mutating when the countdown has already run out.
func (t *Timer) Extend(amount time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remainingLocked() <= 0 {
		return false
	}
	t.startRef = t.startRef.Add(amount)
	return true
}

// Reduce shrinks the total duration, cutting time from the countdown.
// Returns false without mutating when the countdown has already run out.
func (t *Timer) Reduce(amount time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remainingLocked() <= 0 {
		return false
	}
	t.total -= amount
	return true
}
