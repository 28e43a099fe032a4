package ticker

import (
	"sync"
	"time"
)

// Source delivers ticks to a single subscriber while armed.
type Source interface {
	Arm(onTick func())
	Disarm()
}

// Ticker is a Source backed by time.Ticker. Each Arm starts a fresh goroutine;
// ticks from a previous arming are never delivered after Disarm or re-Arm.
type Ticker struct {
	mu         sync.Mutex
	interval   time.Duration
	stopCh     chan struct{}
	generation uint64
}

func New(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{interval: interval}
}

func (t *Ticker) Arm(onTick func()) {
	t.mu.Lock()
	t.disarmLocked()
	t.generation++
	generation := t.generation
	stopCh := make(chan struct{})
	t.stopCh = stopCh
	t.mu.Unlock()

	go t.run(generation, stopCh, onTick)
}

func (t *Ticker) Disarm() {
	t.mu.Lock()
	t.disarmLocked()
	t.mu.Unlock()
}

// Armed reports whether a tick source is currently active.
func (t *Ticker) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopCh != nil
}

func (t *Ticker) disarmLocked() {
	if t.stopCh == nil {
		return
	}
	close(t.stopCh)
	t.stopCh = nil
}

func (t *Ticker) run(generation uint64, stopCh chan struct{}, onTick func()) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !t.isCurrent(generation) {
				return
			}
			onTick()
		}
	}
}

func (t *Ticker) isCurrent(generation uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopCh != nil && t.generation == generation
}
