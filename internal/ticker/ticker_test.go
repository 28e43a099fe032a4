package ticker

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerDeliversWhileArmed(t *testing.T) {
	tk := New(5 * time.Millisecond)
	ticks := make(chan struct{}, 16)
	tk.Arm(func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	defer tk.Disarm()

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("expected at least one tick")
	}
	if !tk.Armed() {
		t.Fatal("expected ticker to be armed")
	}
}

func TestTickerRearmStopsPreviousSource(t *testing.T) {
	tk := New(5 * time.Millisecond)
	var first, second atomic.Int64
	tk.Arm(func() { first.Add(1) })
	tk.Arm(func() { second.Add(1) })
	defer tk.Disarm()

	deadline := time.Now().Add(time.Second)
	for second.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if second.Load() < 3 {
		t.Fatalf("expected re-armed source to tick, got %d", second.Load())
	}

	settled := first.Load()
	time.Sleep(30 * time.Millisecond)
	if first.Load() != settled {
		t.Fatalf("expected first source to stop after re-arm, went from %d to %d", settled, first.Load())
	}
}

func TestTickerDisarmIsIdempotent(t *testing.T) {
	tk := New(5 * time.Millisecond)
	tk.Disarm()

	var count atomic.Int64
	tk.Arm(func() { count.Add(1) })
	tk.Disarm()
	tk.Disarm()

	if tk.Armed() {
		t.Fatal("expected ticker to be disarmed")
	}
	settled := count.Load()
	time.Sleep(30 * time.Millisecond)
	if count.Load() != settled {
		t.Fatalf("expected no ticks after disarm, went from %d to %d", settled, count.Load())
	}
}

func TestManualFire(t *testing.T) {
	m := NewManual()
	if m.Fire() {
		t.Fatal("expected no tick while disarmed")
	}

	count := 0
	m.Arm(func() {
		count++
		if count == 3 {
			m.Disarm()
		}
	})

	if fired := m.FireN(10); fired != 3 {
		t.Fatalf("expected 3 ticks before self-disarm, got %d", fired)
	}
	if m.Armed() {
		t.Fatal("expected manual ticker to be disarmed")
	}
	if m.Arms() != 1 {
		t.Fatalf("expected 1 arm, got %d", m.Arms())
	}
}
