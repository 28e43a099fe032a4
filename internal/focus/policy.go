package focus

import (
	"fmt"

	"focustracker/internal/model"
)

// Action is what the caller asks the machine to do after a segment expires.
type Action string

const (
	ActionReset           Action = "reset"
	ActionStartShortBreak Action = "short_break"
	ActionStartLongBreak  Action = "long_break"
)

type Option struct {
	Label  string `json:"label"`
	Action Action `json:"action"`
}

// Decision is the choice set offered to the user when a segment expires.
type Decision struct {
	ExpiredKind         model.SessionKind `json:"expiredKind"`
	LongBreak           bool              `json:"longBreak"`
	CompletedWorkCycles int               `json:"completedWorkCycles"`
	Title               string            `json:"title"`
	Message             string            `json:"message"`
	Options             []Option          `json:"options"`
}

// Allows reports whether action is one of the decision's options.
func (d Decision) Allows(action Action) bool {
	for _, option := range d.Options {
		if option.Action == action {
			return true
		}
	}
	return false
}

// Decide picks the break offered after a completed work segment. completed is
// the work-cycle count after the increment for the segment that just ended.
func Decide(completed, cycleLength int) Decision {
	if cycleLength <= 0 {
		cycleLength = model.DefaultCycleLength
	}

	if completed > 0 && completed%cycleLength == 0 {
		return Decision{
			ExpiredKind:         model.KindWork,
			LongBreak:           true,
			CompletedWorkCycles: completed,
			Title:               "Great work!",
			Message:             fmt.Sprintf("You finished pomodoro #%d. Time for a long break.", completed),
			Options: []Option{
				{Label: "Later", Action: ActionReset},
				{Label: "Take long break", Action: ActionStartLongBreak},
			},
		}
	}

	return Decision{
		ExpiredKind:         model.KindWork,
		CompletedWorkCycles: completed,
		Title:               "Well done!",
		Message:             "Focus session complete. Take a short break?",
		Options: []Option{
			{Label: "Continue", Action: ActionReset},
			{Label: "Take short break", Action: ActionStartShortBreak},
		},
	}
}

// BreakOver is offered when a short or long break expires.
func BreakOver(kind model.SessionKind, completed int) Decision {
	return Decision{
		ExpiredKind:         kind,
		CompletedWorkCycles: completed,
		Title:               "Break over",
		Message:             "Ready to focus again?",
		Options: []Option{
			{Label: "Back to work", Action: ActionReset},
		},
	}
}

func unrecorded(completed int) Decision {
	return Decision{
		ExpiredKind:         model.KindWork,
		CompletedWorkCycles: completed,
		Title:               "Session not saved",
		Message:             "No category was selected, so this session was not recorded.",
		Options: []Option{
			{Label: "Back to work", Action: ActionReset},
		},
	}
}
