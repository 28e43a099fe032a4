package focus

import (
	"time"

	"focustracker/internal/model"
)

// EventType identifies what a machine Event reports.
type EventType string

const (
	EventStateChanged            EventType = "state_changed"
	EventTick                    EventType = "tick"
	EventSegmentExpired          EventType = "segment_expired"
	EventDistractionDetected     EventType = "distraction_detected"
	EventResumeDecisionRequested EventType = "resume_decision_requested"
	EventNoCategorySelected      EventType = "no_category_selected"
	EventRecordFailed            EventType = "record_failed"
)

// Event is published to subscribers after the state change it describes
// has been applied.
type Event struct {
	Type                EventType         `json:"type"`
	Kind                model.SessionKind `json:"kind"`
	RemainingSeconds    int               `json:"remainingSeconds"`
	Running             bool              `json:"running"`
	Distractions        int               `json:"distractions"`
	CompletedWorkCycles int               `json:"completedWorkCycles"`
	Decision            *Decision         `json:"decision,omitempty"`
	Message             string            `json:"message,omitempty"`
	At                  time.Time         `json:"at"`
}
