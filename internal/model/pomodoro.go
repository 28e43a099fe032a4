package model

import "time"

type SessionKind string

const (
	KindWork       SessionKind = "work"
	KindShortBreak SessionKind = "short_break"
	KindLongBreak  SessionKind = "long_break"
)

const (
	DefaultWorkDurationSeconds       = 25 * 60
	DefaultShortBreakDurationSeconds = 5 * 60
	DefaultLongBreakDurationSeconds  = 15 * 60
	DefaultCycleLength               = 4

	MinWorkMinutes = 1
	MaxWorkMinutes = 180

	MaxCategoryNameLength = 30
)

type SessionConfig struct {
	WorkDurationSeconds       int `json:"workDurationSeconds"`
	ShortBreakDurationSeconds int `json:"shortBreakDurationSeconds"`
	LongBreakDurationSeconds  int `json:"longBreakDurationSeconds"`
	CycleLength               int `json:"cycleLength"`
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		WorkDurationSeconds:       DefaultWorkDurationSeconds,
		ShortBreakDurationSeconds: DefaultShortBreakDurationSeconds,
		LongBreakDurationSeconds:  DefaultLongBreakDurationSeconds,
		CycleLength:               DefaultCycleLength,
	}
}

func (c SessionConfig) DurationFor(kind SessionKind) int {
	switch kind {
	case KindShortBreak:
		return c.ShortBreakDurationSeconds
	case KindLongBreak:
		return c.LongBreakDurationSeconds
	default:
		return c.WorkDurationSeconds
	}
}

func IsValidKind(kind SessionKind) bool {
	return kind == KindWork || kind == KindShortBreak || kind == KindLongBreak
}

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

type FocusSession struct {
	ID              string    `json:"id"`
	Category        string    `json:"category"`
	DurationSeconds int       `json:"durationSeconds"`
	Distractions    int       `json:"distractions"`
	CompletedAt     time.Time `json:"completedAt"`
}
