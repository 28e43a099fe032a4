package focus

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"focustracker/internal/model"
	"focustracker/internal/ticker"
)

// Phase is the externally visible state of the machine.
type Phase string

const (
	PhaseIdle           Phase = "idle"
	PhaseRunning        Phase = "running"
	PhasePaused         Phase = "paused"
	PhaseAwaitingResume Phase = "awaiting_resume"
	PhaseExpired        Phase = "expired"
)

// State is a point-in-time copy of the machine.
type State struct {
	Phase               Phase               `json:"phase"`
	Kind                model.SessionKind   `json:"kind"`
	RemainingSeconds    int                 `json:"remainingSeconds"`
	TotalSeconds        int                 `json:"totalSeconds"`
	Running             bool                `json:"running"`
	Category            string              `json:"category"`
	Distractions        int                 `json:"distractions"`
	CompletedWorkCycles int                 `json:"completedWorkCycles"`
	AwaitingResume      bool                `json:"awaitingResume"`
	PendingDecision     *Decision           `json:"pendingDecision,omitempty"`
	Config              model.SessionConfig `json:"config"`
}

// Progress returns how much of the current segment has elapsed, 0-100.
func (s State) Progress() float64 {
	if s.TotalSeconds <= 0 {
		return 0
	}
	progress := float64(s.TotalSeconds-s.RemainingSeconds) / float64(s.TotalSeconds) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// Options configures a Machine.
type Options struct {
	Ticker   ticker.Source
	Recorder SessionRecorder
	Logger   *slog.Logger
	Now      func() time.Time
}

// Machine owns the timer state for one app session. All mutations, whether
// they come from the ticker, the lifecycle monitor or the user, are applied
// one at a time under mu.
type Machine struct {
	mu       sync.Mutex
	config   model.SessionConfig
	ticker   ticker.Source
	recorder SessionRecorder
	logger   *slog.Logger
	now      func() time.Time

	kind                model.SessionKind
	remaining           int
	running             bool
	category            string
	distractions        int
	completedWorkCycles int
	started             bool
	activeBeforeBg      bool
	awaitingResume      bool
	pending             *Decision

	// armGeneration changes whenever the ticker is armed or disarmed so that a
	// tick from an older arming is dropped.
	armGeneration uint64

	subscribers map[uint64]chan Event
	nextSubID   uint64
}

func New(config model.SessionConfig, options Options) *Machine {
	config = normalizeConfig(config)
	if options.Ticker == nil {
		options.Ticker = ticker.New(time.Second)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	return &Machine{
		config:      config,
		ticker:      options.Ticker,
		recorder:    options.Recorder,
		logger:      options.Logger,
		now:         options.Now,
		kind:        model.KindWork,
		remaining:   config.WorkDurationSeconds,
		subscribers: make(map[uint64]chan Event),
	}
}

func normalizeConfig(config model.SessionConfig) model.SessionConfig {
	defaults := model.DefaultSessionConfig()
	if config.WorkDurationSeconds <= 0 {
		config.WorkDurationSeconds = defaults.WorkDurationSeconds
	}
	if config.ShortBreakDurationSeconds <= 0 {
		config.ShortBreakDurationSeconds = defaults.ShortBreakDurationSeconds
	}
	if config.LongBreakDurationSeconds <= 0 {
		config.LongBreakDurationSeconds = defaults.LongBreakDurationSeconds
	}
	if config.CycleLength <= 0 {
		config.CycleLength = defaults.CycleLength
	}
	return config
}

// Subscribe registers an observer. The returned function unsubscribes and
// closes the channel. Events are dropped for subscribers that fall behind.
func (m *Machine) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = ch
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			if _, ok := m.subscribers[id]; ok {
				delete(m.subscribers, id)
				close(ch)
			}
			m.mu.Unlock()
		})
	}
}

// Close disarms the ticker and closes every subscriber channel.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disarmLocked()
	m.running = false
	for id, ch := range m.subscribers {
		delete(m.subscribers, id)
		close(ch)
	}
}

func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Machine) SelectCategory(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return ErrInvalidState
	}
	m.category = name
	m.emitStateLocked()
	return nil
}

// ToggleStartPause starts the current segment or pauses it. A manual pause
// never counts as a distraction.
func (m *Machine) ToggleStartPause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		m.disarmLocked()
		m.running = false
		m.emitStateLocked()
		return nil
	}

	if err := m.startLocked(); err != nil {
		return err
	}
	m.emitStateLocked()
	return nil
}

// Reset returns to an idle work segment at full duration. It always succeeds
// and cancels any running segment, resume prompt or completion choice.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetLocked()
	m.emitStateLocked()
}

// OnTickElapsed applies one second to the running segment. Ticks that arrive
// while the machine is not running are discarded.
func (m *Machine) OnTickElapsed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickLocked()
}

func (m *Machine) OnAppBackgrounded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.kind != model.KindWork || !m.running {
		return
	}

	m.disarmLocked()
	m.running = false
	m.distractions++
	m.activeBeforeBg = true

	m.logger.Debug("distraction detected", "distractions", m.distractions, "remaining_seconds", m.remaining)
	m.emitLocked(m.eventLocked(EventDistractionDetected))
	m.emitStateLocked()
}

func (m *Machine) OnAppForegrounded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.activeBeforeBg || m.running || m.remaining <= 0 {
		return
	}

	m.activeBeforeBg = false
	m.awaitingResume = true
	m.emitLocked(m.eventLocked(EventResumeDecisionRequested))
	m.emitStateLocked()
}

// ResolveResumeDecision answers the prompt raised by OnAppForegrounded.
func (m *Machine) ResolveResumeDecision(resume bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.awaitingResume {
		return ErrInvalidState
	}
	m.awaitingResume = false

	if resume {
		if err := m.startLocked(); err != nil {
			m.emitStateLocked()
			return err
		}
	}
	m.emitStateLocked()
	return nil
}

func (m *Machine) AdjustWorkDuration(minutes int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running || m.kind != model.KindWork {
		return ErrInvalidState
	}
	if minutes < model.MinWorkMinutes || minutes > model.MaxWorkMinutes {
		return ErrDurationOutOfRange
	}

	m.config.WorkDurationSeconds = minutes * 60
	m.remaining = m.config.WorkDurationSeconds
	m.started = false
	m.emitStateLocked()
	return nil
}

// Choose applies one of the options offered by the pending completion decision.
func (m *Machine) Choose(action Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending == nil || !m.pending.Allows(action) {
		return ErrInvalidState
	}
	m.pending = nil

	switch action {
	case ActionStartShortBreak:
		m.startBreakLocked(model.KindShortBreak)
	case ActionStartLongBreak:
		m.startBreakLocked(model.KindLongBreak)
	default:
		m.resetLocked()
	}
	m.emitStateLocked()
	return nil
}

func (m *Machine) startLocked() error {
	if m.awaitingResume || m.pending != nil || m.remaining <= 0 {
		return ErrInvalidState
	}
	if m.kind == model.KindWork && m.category == "" {
		return ErrMissingCategory
	}

	m.armLocked()
	m.running = true
	m.started = true
	m.activeBeforeBg = false
	return nil
}

func (m *Machine) startBreakLocked(kind model.SessionKind) {
	m.disarmLocked()
	m.kind = kind
	m.remaining = m.config.DurationFor(kind)
	m.distractions = 0
	m.activeBeforeBg = false
	m.awaitingResume = false

	m.armLocked()
	m.running = true
	m.started = true
}

func (m *Machine) resetLocked() {
	m.disarmLocked()
	m.kind = model.KindWork
	m.remaining = m.config.WorkDurationSeconds
	m.running = false
	m.started = false
	m.distractions = 0
	m.activeBeforeBg = false
	m.awaitingResume = false
	m.pending = nil
}

func (m *Machine) armLocked() {
	m.armGeneration++
	generation := m.armGeneration
	m.ticker.Arm(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if generation != m.armGeneration {
			return
		}
		m.tickLocked()
	})
}

func (m *Machine) disarmLocked() {
	m.armGeneration++
	m.ticker.Disarm()
}

func (m *Machine) tickLocked() {
	if !m.running || m.remaining <= 0 {
		return
	}

	m.remaining--
	if m.remaining > 0 {
		m.emitLocked(m.eventLocked(EventTick))
		return
	}

	m.expireLocked()
}

func (m *Machine) expireLocked() {
	m.disarmLocked()
	m.running = false
	expired := m.kind

	var decision Decision
	if expired == model.KindWork {
		decision = m.completeWorkLocked()
	} else {
		decision = BreakOver(expired, m.completedWorkCycles)
	}
	m.pending = &decision

	event := m.eventLocked(EventSegmentExpired)
	event.Decision = &decision
	m.emitLocked(event)
}

func (m *Machine) completeWorkLocked() Decision {
	var err error
	if m.recorder != nil {
		err = m.recorder.Record(m.category, m.config.WorkDurationSeconds, m.distractions)
	} else if m.category == "" {
		err = ErrNoCategorySelected
	}

	if errors.Is(err, ErrNoCategorySelected) {
		m.logger.Error("work segment expired without category", "error", err)
		event := m.eventLocked(EventNoCategorySelected)
		event.Message = err.Error()
		m.emitLocked(event)
		return unrecorded(m.completedWorkCycles)
	}

	m.completedWorkCycles++

	if err != nil {
		m.logger.Warn("failed to record session",
			"category", m.category,
			"error", err,
		)
		event := m.eventLocked(EventRecordFailed)
		event.Message = err.Error()
		m.emitLocked(event)
	}

	return Decide(m.completedWorkCycles, m.config.CycleLength)
}

func (m *Machine) phaseLocked() Phase {
	switch {
	case m.running:
		return PhaseRunning
	case m.awaitingResume:
		return PhaseAwaitingResume
	case m.pending != nil:
		return PhaseExpired
	case m.started:
		return PhasePaused
	default:
		return PhaseIdle
	}
}

func (m *Machine) snapshotLocked() State {
	state := State{
		Phase:               m.phaseLocked(),
		Kind:                m.kind,
		RemainingSeconds:    m.remaining,
		TotalSeconds:        m.config.DurationFor(m.kind),
		Running:             m.running,
		Category:            m.category,
		Distractions:        m.distractions,
		CompletedWorkCycles: m.completedWorkCycles,
		AwaitingResume:      m.awaitingResume,
		Config:              m.config,
	}
	if m.pending != nil {
		decision := *m.pending
		state.PendingDecision = &decision
	}
	return state
}

func (m *Machine) eventLocked(eventType EventType) Event {
	return Event{
		Type:                eventType,
		Kind:                m.kind,
		RemainingSeconds:    m.remaining,
		Running:             m.running,
		Distractions:        m.distractions,
		CompletedWorkCycles: m.completedWorkCycles,
		At:                  m.now(),
	}
}

func (m *Machine) emitStateLocked() {
	m.emitLocked(m.eventLocked(EventStateChanged))
}

func (m *Machine) emitLocked(event Event) {
	for _, ch := range m.subscribers {
		select {
		case ch <- event:
		default:
			m.logger.Warn("dropping timer event for slow subscriber", "type", event.Type)
		}
	}
}
