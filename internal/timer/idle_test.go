package timer

import (
	"testing"
	"time"
)

func newTestIdle() (*Idle, chan Fire) {
	fires := make(chan Fire, 10)
	return NewIdle(func(f Fire) { fires <- f }), fires
}

func TestIdleFires(t *testing.T) {
	idle, fires := newTestIdle()

	idle.Arm(10 * time.Millisecond)
	if !idle.Armed() {
		t.Fatal("timer should be armed")
	}

	select {
	case f := <-fires:
		if !idle.Current(f) {
			t.Error("fire should be current")
		}
		if idle.Armed() {
			t.Error("timer should be disarmed after consuming the fire")
		}
		if idle.Current(f) {
			t.Error("a fire should be accepted only once")
		}
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestIdleDisarm(t *testing.T) {
	idle, fires := newTestIdle()

	idle.Arm(20 * time.Millisecond)
	idle.Disarm()

	if idle.Armed() {
		t.Error("timer should not be armed after Disarm")
	}

	select {
	case f := <-fires:
		t.Errorf("disarmed timer fired: %+v", f)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestIdleRearmReplacesDeadline(t *testing.T) {
	idle, fires := newTestIdle()

	idle.Arm(time.Hour)
	idle.Arm(10 * time.Millisecond)

	select {
	case f := <-fires:
		if !idle.Current(f) {
			t.Error("fire from latest arming should be current")
		}
	case <-time.After(time.Second):
		t.Fatal("re-armed timer did not fire")
	}

	select {
	case f := <-fires:
		t.Errorf("unexpected second fire: %+v", f)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestIdleStaleFireRejected(t *testing.T) {
	idle, fires := newTestIdle()

	idle.Arm(5 * time.Millisecond)

	var stale Fire
	select {
	case stale = <-fires:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}

	// A keystroke handled before the fire is dequeued re-arms the timer
	idle.Arm(time.Hour)
	if idle.Current(stale) {
		t.Error("stale fire should be rejected")
	}
	if !idle.Armed() {
		t.Error("stale fire should not disarm the live arming")
	}

	idle.Disarm()
	if idle.Current(stale) {
		t.Error("stale fire should be rejected after disarm")
	}
}

func TestIdleNonPositiveDurationDisarms(t *testing.T) {
	idle, fires := newTestIdle()

	idle.Arm(time.Hour)
	idle.Arm(0)

	if idle.Armed() {
		t.Error("zero duration should leave the timer disarmed")
	}

	select {
	case f := <-fires:
		t.Errorf("unexpected fire: %+v", f)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestIdleNilPost(t *testing.T) {
	idle := NewIdle(nil)
	idle.Arm(time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	// Nothing to assert beyond not panicking
	idle.Disarm()
}
