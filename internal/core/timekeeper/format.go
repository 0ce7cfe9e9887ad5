package timekeeper

import (
	"fmt"

	"focustimer/internal/core/model"
)

// FormatClock renders seconds as zero-padded MM:SS. Minutes are not wrapped
// at 60, so a 90 minute phase shows 90:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Progress returns how much of the current phase has elapsed, in [0, 1].
func Progress(state model.TimerState) float64 {
	total := state.PhaseDurationSeconds
	if total <= 0 {
		return 1
	}
	progress := float64(total-state.RemainingSeconds) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// CyclesLabel renders the long break counter, e.g. "2/4".
func CyclesLabel(state model.TimerState, settings model.Settings) string {
	return fmt.Sprintf("%d/%d", state.CycleCount, settings.CyclesUntilLongBreak)
}
