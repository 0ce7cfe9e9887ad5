package model

import "fmt"

// Phase identifies one segment of the Pomodoro cycle.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// Phases lists every phase in cycle order.
var Phases = []Phase{PhaseWork, PhaseShortBreak, PhaseLongBreak}

// ParsePhase converts a stored or user supplied name into a Phase.
func ParsePhase(value string) (Phase, error) {
	phase := Phase(value)
	if !phase.Valid() {
		return "", fmt.Errorf("unknown phase %q", value)
	}
	return phase, nil
}

// Valid reports whether the phase is one of the known phases.
func (phase Phase) Valid() bool {
	switch phase {
	case PhaseWork, PhaseShortBreak, PhaseLongBreak:
		return true
	}
	return false
}

// IsBreak reports whether the phase is a short or long break.
func (phase Phase) IsBreak() bool {
	return phase == PhaseShortBreak || phase == PhaseLongBreak
}

func (phase Phase) String() string {
	return string(phase)
}

// Title returns the display name of the phase.
func (phase Phase) Title() string {
	switch phase {
	case PhaseWork:
		return "Focus Time"
	case PhaseShortBreak:
		return "Short Break"
	case PhaseLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// Description returns a short encouragement shown next to the title.
func (phase Phase) Description() string {
	switch phase {
	case PhaseWork:
		return "Time to focus and be productive!"
	case PhaseShortBreak:
		return "Take a quick breather!"
	case PhaseLongBreak:
		return "Enjoy a longer rest!"
	default:
		return ""
	}
}

// Color returns the accent color of the phase as a hex string.
func (phase Phase) Color() string {
	switch phase {
	case PhaseShortBreak:
		return "#10b981"
	case PhaseLongBreak:
		return "#3b82f6"
	default:
		return "#ec4899"
	}
}
