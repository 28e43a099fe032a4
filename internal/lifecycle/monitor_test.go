package lifecycle

import (
	"errors"
	"testing"
	"time"
)

type recordingListener struct {
	signals []Signal
}

func (l *recordingListener) OnAppBackgrounded() { l.signals = append(l.signals, SignalBackgrounded) }
func (l *recordingListener) OnAppForegrounded() { l.signals = append(l.signals, SignalForegrounded) }

func TestMonitorDebouncesTransitions(t *testing.T) {
	tests := []struct {
		name    string
		reports []AppState
		want    []Signal
	}{
		{
			name:    "inactive then background fires once",
			reports: []AppState{StateInactive, StateInactive, StateBackground, StateActive},
			want:    []Signal{SignalBackgrounded, SignalForegrounded},
		},
		{
			name:    "repeated active is silent",
			reports: []AppState{StateActive, StateActive},
			want:    nil,
		},
		{
			name:    "two excursions",
			reports: []AppState{StateBackground, StateActive, StateInactive, StateActive},
			want:    []Signal{SignalBackgrounded, SignalForegrounded, SignalBackgrounded, SignalForegrounded},
		},
		{
			name:    "background to inactive is silent",
			reports: []AppState{StateBackground, StateInactive, StateBackground},
			want:    []Signal{SignalBackgrounded},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listener := &recordingListener{}
			monitor := NewMonitor(listener, nil)
			for _, state := range tt.reports {
				monitor.Report(state)
			}
			if len(listener.signals) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, listener.signals)
			}
			for i := range tt.want {
				if listener.signals[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, listener.signals)
				}
			}
		})
	}
}

func TestMonitorReportReturnsSignal(t *testing.T) {
	monitor := NewMonitor(nil, nil)
	if got := monitor.Report(StateBackground); got != SignalBackgrounded {
		t.Fatalf("expected backgrounded, got %s", got)
	}
	if got := monitor.Report(StateBackground); got != SignalNone {
		t.Fatalf("expected none, got %s", got)
	}
	if got := monitor.Current(); got != StateBackground {
		t.Fatalf("expected current background, got %s", got)
	}
}

func TestParseAppState(t *testing.T) {
	if state, err := ParseAppState(" Background "); err != nil || state != StateBackground {
		t.Fatalf("expected background, got %q %v", state, err)
	}
	if _, err := ParseAppState("suspended"); err == nil {
		t.Fatal("expected error for unknown state")
	}
}

type fakeIdleProvider struct {
	idle time.Duration
	err  error
}

func (f *fakeIdleProvider) IdleDuration() (time.Duration, error) {
	return f.idle, f.err
}

func TestIdlePollerReportsTransitionsOnly(t *testing.T) {
	listener := &recordingListener{}
	monitor := NewMonitor(listener, nil)
	provider := &fakeIdleProvider{}
	poller := NewIdlePoller(provider, monitor, time.Minute, time.Second, nil)

	steps := []time.Duration{0, 30 * time.Second, 2 * time.Minute, 3 * time.Minute, time.Second, 0}
	for _, idle := range steps {
		provider.idle = idle
		if err := poller.Poll(); err != nil {
			t.Fatalf("poll: %v", err)
		}
	}

	want := []Signal{SignalBackgrounded, SignalForegrounded}
	if len(listener.signals) != len(want) || listener.signals[0] != want[0] || listener.signals[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, listener.signals)
	}
}

func TestIdlePollerDefersToClientReports(t *testing.T) {
	t.Run("client foreground while idle is kept", func(t *testing.T) {
		listener := &recordingListener{}
		monitor := NewMonitor(listener, nil)
		provider := &fakeIdleProvider{}
		poller := NewIdlePoller(provider, monitor, time.Minute, time.Second, nil)

		provider.idle = 2 * time.Minute
		_ = poller.Poll()
		monitor.Report(StateActive)
		provider.idle = 0
		_ = poller.Poll()

		want := []Signal{SignalBackgrounded, SignalForegrounded}
		if len(listener.signals) != len(want) || listener.signals[0] != want[0] || listener.signals[1] != want[1] {
			t.Fatalf("expected %v, got %v", want, listener.signals)
		}
		if monitor.Current() != StateActive {
			t.Fatalf("expected active, got %s", monitor.Current())
		}
	})

	t.Run("client background is not undone by input", func(t *testing.T) {
		listener := &recordingListener{}
		monitor := NewMonitor(listener, nil)
		provider := &fakeIdleProvider{}
		poller := NewIdlePoller(provider, monitor, time.Minute, time.Second, nil)

		monitor.Report(StateBackground)
		provider.idle = 2 * time.Minute
		_ = poller.Poll()
		provider.idle = 0
		_ = poller.Poll()

		if len(listener.signals) != 1 || listener.signals[0] != SignalBackgrounded {
			t.Fatalf("expected only the client background, got %v", listener.signals)
		}
		if monitor.Current() != StateBackground {
			t.Fatalf("expected background kept, got %s", monitor.Current())
		}
	})
}

func TestIdlePollerUnsupported(t *testing.T) {
	poller := NewIdlePoller(unsupportedIdleProvider{}, NewMonitor(nil, nil), 0, 0, nil)
	if err := poller.Poll(); !errors.Is(err, ErrIdleUnsupported) {
		t.Fatalf("expected ErrIdleUnsupported, got %v", err)
	}
}
