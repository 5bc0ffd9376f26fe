// Package timer provides the one-shot idle timer that commits a pending
// multi-tap cycle.
//
// The timer never touches editor state. When it elapses it posts a Fire
// value through a callback, typically into the event loop's channel; the
// loop then asks Current whether that fire is still the live one before
// acting on it. A keystroke that races an in-flight fire disarms the timer
// first, which makes the stale fire fail the Current check.
package timer

import (
	"sync"
	"time"
)

// Fire is posted when an armed timer elapses.
type Fire struct {
	// Generation identifies the Arm call that produced this fire.
	Generation uint64
}

// Idle is a cancellable, re-armable one-shot timer.
//
// Thread-safety: All methods are safe for concurrent use. The post callback
// runs on the timer goroutine and must not block indefinitely.
type Idle struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64 // generation of the most recent Arm or Disarm
	armed bool
	post  func(Fire)
}

// NewIdle creates a disarmed timer that delivers fires through post.
func NewIdle(post func(Fire)) *Idle {
	return &Idle{post: post}
}

// Arm schedules a fire after d, replacing any pending deadline.
// A non-positive d disarms the timer instead.
func (t *Idle) Arm(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	if d <= 0 {
		return
	}

	t.armed = true
	gen := t.gen
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		live := t.armed && t.gen == gen
		t.mu.Unlock()
		if live && t.post != nil {
			t.post(Fire{Generation: gen})
		}
	})
}

// Disarm cancels a pending fire. Fires already posted become stale.
func (t *Idle) Disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

// Current reports whether f belongs to the live arming, and if so marks the
// timer as no longer armed. Each arming is accepted at most once.
func (t *Idle) Current(f Fire) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.armed || f.Generation != t.gen {
		return false
	}
	t.armed = false
	t.timer = nil
	return true
}

// Armed returns true if a fire is pending.
func (t *Idle) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

// stopLocked stops the underlying timer and invalidates in-flight fires.
func (t *Idle) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.armed = false
}
