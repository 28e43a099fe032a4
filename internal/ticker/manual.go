package ticker

import "sync"

// Manual is a Source driven by explicit Fire calls. It is used by tests and
// by callers that own their own clock.
type Manual struct {
	mu     sync.Mutex
	onTick func()
	arms   int
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Arm(onTick func()) {
	m.mu.Lock()
	m.onTick = onTick
	m.arms++
	m.mu.Unlock()
}

func (m *Manual) Disarm() {
	m.mu.Lock()
	m.onTick = nil
	m.mu.Unlock()
}

func (m *Manual) Armed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.onTick != nil
}

// Arms returns how many times Arm has been called.
func (m *Manual) Arms() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.arms
}

// Fire delivers one tick if armed and reports whether it did.
func (m *Manual) Fire() bool {
	m.mu.Lock()
	onTick := m.onTick
	m.mu.Unlock()

	if onTick == nil {
		return false
	}
	onTick()
	return true
}

// FireN delivers up to n ticks, stopping early once disarmed.
func (m *Manual) FireN(n int) int {
	fired := 0
	for i := 0; i < n; i++ {
		if !m.Fire() {
			break
		}
		fired++
	}
	return fired
}
