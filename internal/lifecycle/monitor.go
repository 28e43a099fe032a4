package lifecycle

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// AppState is the host process state reported by the front end.
type AppState string

const (
	StateActive     AppState = "active"
	StateInactive   AppState = "inactive"
	StateBackground AppState = "background"
)

func ParseAppState(raw string) (AppState, error) {
	switch state := AppState(strings.ToLower(strings.TrimSpace(raw))); state {
	case StateActive, StateInactive, StateBackground:
		return state, nil
	default:
		return "", fmt.Errorf("unknown app state %q", raw)
	}
}

func (s AppState) isActive() bool {
	return s == StateActive
}

// Signal is what a reported transition produced.
type Signal string

const (
	SignalNone         Signal = "none"
	SignalBackgrounded Signal = "backgrounded"
	SignalForegrounded Signal = "foregrounded"
)

// Listener receives debounced lifecycle signals.
type Listener interface {
	OnAppBackgrounded()
	OnAppForegrounded()
}

// Monitor turns raw state reports into background/foreground signals. A
// signal fires only when the previous and next states fall on opposite sides
// of the active boundary, so inactive->background and repeated reports are
// ignored.
type Monitor struct {
	mu       sync.Mutex
	current  AppState
	listener Listener
	logger   *slog.Logger
}

func NewMonitor(listener Listener, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		current:  StateActive,
		listener: listener,
		logger:   logger,
	}
}

func (m *Monitor) Current() AppState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Report records the next state and synchronously notifies the listener.
func (m *Monitor) Report(next AppState) Signal {
	m.mu.Lock()
	defer m.mu.Unlock()

	previous := m.current
	m.current = next

	switch {
	case previous.isActive() && !next.isActive():
		m.logger.Debug("app backgrounded", "from", previous, "to", next)
		if m.listener != nil {
			m.listener.OnAppBackgrounded()
		}
		return SignalBackgrounded
	case !previous.isActive() && next.isActive():
		m.logger.Debug("app foregrounded", "from", previous, "to", next)
		if m.listener != nil {
			m.listener.OnAppForegrounded()
		}
		return SignalForegrounded
	default:
		return SignalNone
	}
}
