package menu

import (
	"sync"
	"time"
)

// retryScheduler is the explicit state machine behind the
// self-healing refresh loop: Idle, or PendingRetry with a deadline and
// an attempt count. It owns all timer bookkeeping; at most one
// deferred retry is ever in flight.
type retryScheduler struct {
	delay   time.Duration
	ceiling int
	fire    func()

	mu       sync.Mutex
	timer    *time.Timer
	pending  bool
	attempts int
}

func newRetryScheduler(delay time.Duration, ceiling int, fire func()) *retryScheduler {
	return &retryScheduler{
		delay:   delay,
		ceiling: ceiling,
		fire:    fire,
	}
}

// Schedule records one more failed attempt and, while under the
// ceiling, arms exactly one deferred retry, replacing any pending one.
// At the ceiling it disarms and resets the counter instead, returning
// false: the incomplete snapshot stands until an external refresh.
func (r *retryScheduler) Schedule() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.attempts++
	if r.attempts >= r.ceiling {
		r.stopLocked()
		r.attempts = 0
		return false
	}

	r.stopLocked()
	r.pending = true
	r.timer = time.AfterFunc(r.delay, func() {
		r.mu.Lock()
		r.pending = false
		r.mu.Unlock()
		r.fire()
	})
	return true
}

// Cancel disarms any pending retry and resets the attempt counter.
// Called on every complete result.
func (r *retryScheduler) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.attempts = 0
}

func (r *retryScheduler) stopLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.pending = false
}

func (r *retryScheduler) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

func (r *retryScheduler) Attempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}
