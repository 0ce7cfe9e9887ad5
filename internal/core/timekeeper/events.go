package timekeeper

import (
	"time"

	"focustimer/internal/core/model"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventStarted           EventType = "started"
	EventPaused            EventType = "paused"
	EventReset             EventType = "reset"
	EventTicked            EventType = "ticked"
	EventLowTimeTick       EventType = "low_time_tick"
	EventPhaseCompleted    EventType = "phase_completed"
	EventPhaseTransitioned EventType = "phase_transitioned"
	EventSettingsChanged   EventType = "settings_changed"
)

// Reason explains why a phase transition happened.
type Reason string

const (
	ReasonCompleted Reason = "completed"
	ReasonSkipped   Reason = "skipped"
)

// Event represents a TimeKeeper update for observers.
//
// Phase is the phase the event refers to. From, To and Reason are only set on
// EventPhaseTransitioned, where Remaining and Elapsed describe the phase that
// just ended. On tick events Remaining is the countdown after the decrement.
type Event struct {
	Type      EventType
	Phase     model.Phase
	From      model.Phase
	To        model.Phase
	Reason    Reason
	Remaining int
	Elapsed   int
	State     model.TimerState
	At        time.Time
}
