package watcher

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestNewDebouncer(t *testing.T) {
	if d := NewDebouncer(0); d.Duration() != DefaultDebounceDuration {
		t.Errorf("Duration() = %v, want %v", d.Duration(), DefaultDebounceDuration)
	}
	if d := NewDebouncer(40 * time.Millisecond); d.Duration() != 40*time.Millisecond {
		t.Errorf("Duration() = %v, want 40ms", d.Duration())
	}
}

func TestDebouncerCoalesces(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(80 * time.Millisecond)

	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(200 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("callback called %d times, want 1", got)
	}
}

func TestDebouncerCancel(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(50 * time.Millisecond)

	d.Trigger(func() { calls.Add(1) })
	d.Cancel()
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("callback called %d times after Cancel, want 0", got)
	}
}
