// Package timer renders the main countdown window.
package timer

import (
	"fmt"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
)

// View holds the display strings derived from a timer snapshot.
type View struct {
	Phase       model.Phase
	Title       string
	Description string
	Clock       string
	Progress    float64
	Sessions    string
	Cycles      string
	ToggleLabel string
	Color       string
}

// NewView derives what the window shows for state.
func NewView(state model.TimerState, settings model.Settings) View {
	toggle := "Start"
	if state.IsRunning {
		toggle = "Pause"
	}
	return View{
		Phase:       state.Phase,
		Title:       state.Phase.Title(),
		Description: state.Phase.Description(),
		Clock:       timekeeper.FormatClock(state.RemainingSeconds),
		Progress:    timekeeper.Progress(state),
		Sessions:    fmt.Sprintf("Total Sessions: %d", state.TotalCycles),
		Cycles:      fmt.Sprintf("%s Until Long Break", timekeeper.CyclesLabel(state, settings)),
		ToggleLabel: toggle,
		Color:       state.Phase.Color(),
	}
}

// StatusLine is the compact "Work 12:34" form used by the tray.
func StatusLine(state model.TimerState) string {
	label := "Work"
	switch state.Phase {
	case model.PhaseShortBreak:
		label = "Break"
	case model.PhaseLongBreak:
		label = "Long Break"
	}
	status := fmt.Sprintf("%s %s", label, timekeeper.FormatClock(state.RemainingSeconds))
	if !state.IsRunning && !state.AwaitingAdvance {
		status += " (paused)"
	}
	return status
}
