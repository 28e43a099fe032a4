package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	apperrors "focustracker/internal/errors"
	"focustracker/internal/focus"
	"focustracker/internal/lifecycle"
	"focustracker/internal/model"
	"focustracker/internal/settings"
)

// CategoryChecker reports whether a category name is known.
type CategoryChecker interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// TimerService is the HTTP-facing wrapper around the focus machine.
type TimerService struct {
	machine    *focus.Machine
	monitor    *lifecycle.Monitor
	categories CategoryChecker
	logger     *slog.Logger

	settingsMu   sync.Mutex
	settings     settings.Settings
	settingsPath string
}

type TimerServiceOptions struct {
	Machine      *focus.Machine
	Monitor      *lifecycle.Monitor
	Categories   CategoryChecker
	Settings     settings.Settings
	SettingsPath string
	Logger       *slog.Logger
}

type StateView struct {
	focus.State
	Progress  float64 `json:"progress"`
	Remaining string  `json:"remaining"`
}

type LifecycleResult struct {
	AppState lifecycle.AppState `json:"appState"`
	Signal   lifecycle.Signal   `json:"signal"`
	State    StateView          `json:"state"`
}

func NewTimerService(options TimerServiceOptions) *TimerService {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TimerService{
		machine:      options.Machine,
		monitor:      options.Monitor,
		categories:   options.Categories,
		logger:       logger,
		settings:     options.Settings,
		settingsPath: options.SettingsPath,
	}
}

func (s *TimerService) State() StateView {
	return newStateView(s.machine.Snapshot())
}

func (s *TimerService) Subscribe(buffer int) (<-chan focus.Event, func()) {
	return s.machine.Subscribe(buffer)
}

func (s *TimerService) SelectCategory(ctx context.Context, name string) (*StateView, *apperrors.APIError) {
	normalized, err := NormalizeCategoryName(name)
	if err != nil {
		return nil, apperrors.BadRequest("invalid_category_name", err.Error())
	}

	if s.categories != nil {
		exists, err := s.categories.Exists(ctx, normalized)
		if err != nil {
			s.logger.Error("check category", "name", normalized, "error", err)
			return nil, apperrors.Internal("failed to check category")
		}
		if !exists {
			return nil, apperrors.NotFound("category_not_found", "category not found")
		}
	}

	if err := s.machine.SelectCategory(normalized); err != nil {
		return nil, mapTimerError(err)
	}
	return s.view(), nil
}

func (s *TimerService) Toggle() (*StateView, *apperrors.APIError) {
	if err := s.machine.ToggleStartPause(); err != nil {
		return nil, mapTimerError(err)
	}
	return s.view(), nil
}

func (s *TimerService) Reset() *StateView {
	s.machine.Reset()
	return s.view()
}

func (s *TimerService) Resume(resume bool) (*StateView, *apperrors.APIError) {
	if err := s.machine.ResolveResumeDecision(resume); err != nil {
		return nil, mapTimerError(err)
	}
	return s.view(), nil
}

func (s *TimerService) Choose(action string) (*StateView, *apperrors.APIError) {
	if err := s.machine.Choose(focus.Action(action)); err != nil {
		return nil, mapTimerError(err)
	}
	return s.view(), nil
}

// AdjustWorkDuration changes the work length and persists it to the settings
// file. A failed save is logged; the in-memory change stands.
func (s *TimerService) AdjustWorkDuration(minutes int) (*StateView, *apperrors.APIError) {
	if err := s.machine.AdjustWorkDuration(minutes); err != nil {
		return nil, mapTimerError(err)
	}

	s.settingsMu.Lock()
	s.settings.WorkMinutes = minutes
	current := s.settings
	s.settingsMu.Unlock()

	if s.settingsPath != "" {
		if err := settings.Save(s.settingsPath, current); err != nil {
			s.logger.Warn("save settings", "path", s.settingsPath, "error", err)
		}
	}
	return s.view(), nil
}

func (s *TimerService) ReportLifecycle(raw string) (*LifecycleResult, *apperrors.APIError) {
	state, err := lifecycle.ParseAppState(raw)
	if err != nil {
		return nil, apperrors.BadRequest("invalid_app_state", "state must be active, inactive or background")
	}

	signal := s.monitor.Report(state)
	return &LifecycleResult{
		AppState: state,
		Signal:   signal,
		State:    s.State(),
	}, nil
}

func (s *TimerService) view() *StateView {
	view := s.State()
	return &view
}

func newStateView(state focus.State) StateView {
	return StateView{
		State:     state,
		Progress:  state.Progress(),
		Remaining: model.FormatClock(state.RemainingSeconds),
	}
}

func mapTimerError(err error) *apperrors.APIError {
	switch {
	case errors.Is(err, focus.ErrMissingCategory):
		return apperrors.UnprocessableEntity("missing_category", "select a category before starting")
	case errors.Is(err, focus.ErrDurationOutOfRange):
		return apperrors.BadRequest("invalid_duration", "minutes must be between 1 and 180")
	case errors.Is(err, focus.ErrInvalidState):
		return apperrors.Conflict("invalid_state", "operation not allowed in the current timer state", nil)
	default:
		return apperrors.Internal("")
	}
}
