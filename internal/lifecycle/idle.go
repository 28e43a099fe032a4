package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleProvider reports the time since the last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// IdlePoller feeds a Monitor from desktop idle time: the app counts as
// backgrounded once the user has been idle for Threshold. It shares the
// Monitor with client reports, so it only backgrounds an active monitor and
// only foregrounds a background it reported itself.
type IdlePoller struct {
	provider  IdleProvider
	monitor   *Monitor
	threshold time.Duration
	interval  time.Duration
	logger    *slog.Logger
	idle      bool
	owned     bool
}

func NewIdlePoller(provider IdleProvider, monitor *Monitor, threshold, interval time.Duration, logger *slog.Logger) *IdlePoller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if threshold <= 0 {
		threshold = 2 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IdlePoller{
		provider:  provider,
		monitor:   monitor,
		threshold: threshold,
		interval:  interval,
		logger:    logger,
	}
}

// Run polls until ctx is cancelled or the provider turns out to be unsupported.
func (p *IdlePoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.Poll(); errors.Is(err, ErrIdleUnsupported) {
				p.logger.Warn("idle polling disabled", "error", err)
				return err
			}
		}
	}
}

// Poll checks the provider once and reports a transition if the idle state changed.
func (p *IdlePoller) Poll() error {
	idleFor, err := p.provider.IdleDuration()
	if err != nil {
		if !errors.Is(err, ErrIdleUnsupported) {
			p.logger.Warn("idle check failed", "error", err)
		}
		return err
	}

	idle := idleFor >= p.threshold
	if idle == p.idle {
		return nil
	}
	p.idle = idle

	current := p.monitor.Current()
	if idle {
		p.owned = current == StateActive
		if p.owned {
			p.monitor.Report(StateBackground)
		}
		return nil
	}

	if p.owned && current != StateActive {
		p.monitor.Report(StateActive)
	}
	p.owned = false
	return nil
}

// XPrintIdleProvider reads X11 idle time from the xprintidle binary.
type XPrintIdleProvider struct {
	path string
}

func NewXPrintIdleProvider() IdleProvider {
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return unsupportedIdleProvider{}
	}
	return &XPrintIdleProvider{path: path}
}

func (p *XPrintIdleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(p.path).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	idleMillis, err := strconv.ParseInt(strings.TrimSpace(string(output)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, ErrIdleUnsupported
}
