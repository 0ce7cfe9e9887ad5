// Package schedule abstracts delayed callbacks so timer logic can run on
// real or virtual time.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Handle cancels a scheduled callback.
type Handle interface {
	// Stop prevents the callback from firing. It reports whether the call
	// stopped the callback, false if it already fired or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(delay time.Duration, fn func()) Handle
	Now() time.Time
}

// Real schedules callbacks on the runtime timer.
type Real struct{}

// AfterFunc calls fn in its own goroutine once delay has elapsed.
func (Real) AfterFunc(delay time.Duration, fn func()) Handle {
	return time.AfterFunc(delay, fn)
}

// Now returns the current wall-clock time.
func (Real) Now() time.Time {
	return time.Now()
}

var _ Scheduler = Real{}

// Manual is a virtual-time scheduler. Callbacks only fire from Advance,
// synchronously and in deadline order.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	seq     uint64
	pending []*manualTimer
}

type manualTimer struct {
	owner    *Manual
	deadline time.Time
	seq      uint64
	fn       func()
}

// NewManual creates a virtual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the virtual time.
func (manual *Manual) Now() time.Time {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return manual.now
}

// AfterFunc registers fn to fire once the virtual clock passes delay.
func (manual *Manual) AfterFunc(delay time.Duration, fn func()) Handle {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	if delay < 0 {
		delay = 0
	}
	manual.seq++
	timer := &manualTimer{
		owner:    manual,
		deadline: manual.now.Add(delay),
		seq:      manual.seq,
		fn:       fn,
	}
	manual.pending = append(manual.pending, timer)
	return timer
}

// Advance moves the clock forward by delta, firing every callback that
// becomes due. Callbacks scheduled by fired callbacks fire too when their
// deadline falls inside the window.
func (manual *Manual) Advance(delta time.Duration) {
	manual.mu.Lock()
	target := manual.now.Add(delta)
	for {
		timer := manual.popDueLocked(target)
		if timer == nil {
			break
		}
		manual.now = timer.deadline
		manual.mu.Unlock()
		timer.fn()
		manual.mu.Lock()
	}
	manual.now = target
	manual.mu.Unlock()
}

// Pending returns the number of callbacks that have not fired or been stopped.
func (manual *Manual) Pending() int {
	manual.mu.Lock()
	defer manual.mu.Unlock()
	return len(manual.pending)
}

func (manual *Manual) popDueLocked(target time.Time) *manualTimer {
	if len(manual.pending) == 0 {
		return nil
	}
	sort.SliceStable(manual.pending, func(i, j int) bool {
		left, right := manual.pending[i], manual.pending[j]
		if left.deadline.Equal(right.deadline) {
			return left.seq < right.seq
		}
		return left.deadline.Before(right.deadline)
	})
	next := manual.pending[0]
	if next.deadline.After(target) {
		return nil
	}
	manual.pending = manual.pending[1:]
	return next
}

func (timer *manualTimer) Stop() bool {
	owner := timer.owner
	owner.mu.Lock()
	defer owner.mu.Unlock()
	for index, candidate := range owner.pending {
		if candidate == timer {
			owner.pending = append(owner.pending[:index], owner.pending[index+1:]...)
			return true
		}
	}
	return false
}

var _ Scheduler = (*Manual)(nil)
