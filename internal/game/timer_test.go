package game

import (
	"testing"
	"time"
)

func TestTimerLifecycle(t *testing.T) {
	timer := NewTimer(time.Second)

	if timer.Active() {
		t.Error("new timer is active")
	}
	if timer.Remaining() != 0 {
		t.Errorf("stopped timer Remaining = %v, want 0", timer.Remaining())
	}
	if timer.IsExpired() {
		t.Error("stopped timer reports expired")
	}

	timer.Start()
	if !timer.Active() {
		t.Error("started timer is not active")
	}
	remaining := timer.Remaining()
	if remaining <= 0 || remaining > time.Second {
		t.Errorf("Remaining = %v, want within (0, 1s]", remaining)
	}

	timer.Stop()
	if timer.Active() {
		t.Error("stopped timer is active")
	}
	if timer.Remaining() != 0 {
		t.Errorf("stopped timer Remaining = %v, want 0", timer.Remaining())
	}

	// Stopping twice is a no-op
	timer.Stop()
	if timer.Active() {
		t.Error("double-stopped timer is active")
	}
}

func TestTimerExpiry(t *testing.T) {
	timer := NewTimer(10 * time.Millisecond)
	timer.Start()

	time.Sleep(20 * time.Millisecond)

	if !timer.IsExpired() {
		t.Error("elapsed timer does not report expired")
	}
	if timer.Remaining() != 0 {
		t.Errorf("elapsed timer Remaining = %v, want 0", timer.Remaining())
	}
}

func TestTimerExtend(t *testing.T) {
	timer := NewTimer(50 * time.Millisecond)
	timer.Start()

	before := timer.Remaining()
	if !timer.Extend(time.Second) {
		t.Fatal("Extend failed on a running timer")
	}
	after := timer.Remaining()
	if after <= before {
		t.Errorf("Extend did not add time: before %v, after %v", before, after)
	}
}

func TestTimerExtendAfterExpiry(t *testing.T) {
	timer := NewTimer(5 * time.Millisecond)
	timer.Start()
	time.Sleep(10 * time.Millisecond)

	if timer.Extend(time.Second) {
		t.Error("Extend succeeded on an expired timer")
	}
	if timer.Remaining() != 0 {
		t.Errorf("expired timer Remaining = %v after refused Extend, want 0", timer.Remaining())
	}
}

func TestTimerReduce(t *testing.T) {
	timer := NewTimer(time.Minute)
	timer.Start()

	if !timer.Reduce(59 * time.Second) {
		t.Fatal("Reduce failed on a running timer")
	}
	if timer.Remaining() > time.Second {
		t.Errorf("Remaining = %v after Reduce, want <= 1s", timer.Remaining())
	}
}

func TestTimerReduceAfterExpiry(t *testing.T) {
	timer := NewTimer(5 * time.Millisecond)
	timer.Start()
	time.Sleep(10 * time.Millisecond)

	if timer.Reduce(time.Second) {
		t.Error("Reduce succeeded on an expired timer")
	}
}

func TestTimerReset(t *testing.T) {
	timer := NewTimer(5 * time.Millisecond)
	timer.Start()
	time.Sleep(10 * time.Millisecond)

	// The grace sub-round restarts the countdown with a fresh total.
	timer.Reset(time.Second)
	if !timer.Active() {
		t.Error("reset timer is not active")
	}
	if timer.IsExpired() {
		t.Error("reset timer reports expired")
	}
	if timer.Remaining() <= 0 {
		t.Errorf("reset timer Remaining = %v, want > 0", timer.Remaining())
	}
}
