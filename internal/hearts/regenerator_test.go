package hearts

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRegeneratorTicks(t *testing.T) {
	var ticks atomic.Int32
	r := NewRegenerator(20*time.Millisecond, func() { ticks.Add(1) }, nil)

	if err := r.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer r.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if ticks.Load() < 2 {
		t.Fatalf("ticks = %d, want at least 2", ticks.Load())
	}
}

func TestRegeneratorWaitsOneInterval(t *testing.T) {
	var ticks atomic.Int32
	r := NewRegenerator(time.Hour, func() { ticks.Add(1) }, nil)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	defer r.Stop()

	time.Sleep(50 * time.Millisecond)
	if ticks.Load() != 0 {
		t.Fatalf("ticked %d times before the first interval elapsed", ticks.Load())
	}
}

func TestRegeneratorStartIsIdempotent(t *testing.T) {
	r := NewRegenerator(time.Hour, func() {}, nil)

	for i := 0; i < 3; i++ {
		if err := r.Start(); err != nil {
			t.Fatal(err)
		}
	}
	if r.Jobs() != 1 {
		t.Fatalf("jobs = %d, want 1", r.Jobs())
	}

	r.Stop()
	if r.Running() || r.Jobs() != 0 {
		t.Fatal("expected no jobs after stop")
	}
	r.Stop()

	if err := r.Start(); err != nil {
		t.Fatal(err)
	}
	defer r.Stop()
	if r.Jobs() != 1 {
		t.Fatalf("jobs after restart = %d, want 1", r.Jobs())
	}
}

func TestRegeneratorStopHaltsTicks(t *testing.T) {
	var ticks atomic.Int32
	r := NewRegenerator(10*time.Millisecond, func() { ticks.Add(1) }, nil)
	if err := r.Start(); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	r.Stop()
	time.Sleep(20 * time.Millisecond)

	stopped := ticks.Load()
	time.Sleep(60 * time.Millisecond)
	if ticks.Load() != stopped {
		t.Fatalf("ticked after stop: %d -> %d", stopped, ticks.Load())
	}
}

func TestDefaultInterval(t *testing.T) {
	r := NewRegenerator(0, func() {}, nil)
	if r.interval != DefaultInterval {
		t.Fatalf("interval = %v", r.interval)
	}
}
