// Package deferred provides a reschedulable delayed task.
//
// A Task groups a burst of same-cause triggers into a single run after a quiet
// period. Scheduling again before the delay elapses cancels the pending run
// and restarts the timer, so the function fires at most once per quiet period.
package deferred

import (
	"sync"
	"time"
)

// Task runs a function once after the last Schedule call settles.
//
// Thread-safety: All methods are safe for concurrent use. The function is
// never called concurrently with itself from the task.
type Task struct {
	mu      sync.Mutex
	run     sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending bool
	seq     uint64 // sequence number to detect stale timer callbacks
	fn      func()

	now    func() time.Time
	due    time.Time
	manual bool
}

// Option configures a Task.
type Option func(*Task)

// WithClock sets the clock used to compute when a scheduled run is due.
func WithClock(now func() time.Time) Option {
	return func(t *Task) {
		if now != nil {
			t.now = now
		}
	}
}

// Manual arms no timer. A positive delay only sets the due time; the owner
// runs the task through RunDue or Flush.
func Manual() Option {
	return func(t *Task) {
		t.manual = true
	}
}

// New creates a task that runs fn after delay.
func New(delay time.Duration, fn func(), opts ...Option) *Task {
	t := &Task{
		delay: delay,
		fn:    fn,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Schedule arms the task. A pending run is cancelled and the delay restarts.
// With a zero delay the function runs synchronously.
func (t *Task) Schedule() {
	t.mu.Lock()

	t.pending = true
	t.seq++
	currentSeq := t.seq
	t.due = t.now().Add(t.delay)

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}

	if t.delay <= 0 {
		t.mu.Unlock()
		t.fire(currentSeq)
		return
	}
	if t.manual {
		t.mu.Unlock()
		return
	}

	t.timer = time.AfterFunc(t.delay, func() {
		t.fire(currentSeq)
	})
	t.mu.Unlock()
}

// fire runs fn if seq is still the current schedule.
func (t *Task) fire(seq uint64) {
	t.mu.Lock()
	if !t.pending || t.seq != seq || t.fn == nil {
		t.mu.Unlock()
		return
	}
	t.pending = false
	t.timer = nil
	t.mu.Unlock()

	t.run.Lock()
	defer t.run.Unlock()
	t.fn()
}

// Flush runs a pending call immediately and cancels its timer.
// It reports whether anything ran.
func (t *Task) Flush() bool {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	// invalidate a timer callback that is already running
	t.seq++

	if !t.pending || t.fn == nil {
		t.mu.Unlock()
		return false
	}
	t.pending = false
	t.mu.Unlock()

	t.run.Lock()
	defer t.run.Unlock()
	t.fn()
	return true
}

// Due returns when the pending call comes due on the task's clock.
func (t *Task) Due() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.due, t.pending
}

// RunDue runs the pending call if its due time is not after now. It
// reports whether anything ran.
func (t *Task) RunDue(now time.Time) bool {
	t.mu.Lock()
	due := t.pending && !t.due.After(now)
	t.mu.Unlock()
	if !due {
		return false
	}
	return t.Flush()
}

// Cancel drops any pending call.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++
	t.pending = false
}

// Pending returns true if a call is scheduled.
func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Delay returns the current delay.
func (t *Task) Delay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delay
}

// SetDelay changes the delay used by later Schedule calls.
func (t *Task) SetDelay(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.delay = d
}
