package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSettings indicates a settings update was rejected.
var ErrInvalidSettings = errors.New("invalid settings")

// MinCyclesUntilLongBreak is the smallest accepted long break threshold.
const MinCyclesUntilLongBreak = 2

// Settings contains the phase durations in minutes and the long break threshold.
type Settings struct {
	WorkDuration         int
	ShortBreakDuration   int
	LongBreakDuration    int
	CyclesUntilLongBreak int
}

// SettingsUpdate is a partial settings change. Nil fields keep their current value.
type SettingsUpdate struct {
	WorkDuration         *int
	ShortBreakDuration   *int
	LongBreakDuration    *int
	CyclesUntilLongBreak *int
}

// DefaultSettings returns the classic 25/5/15 schedule with a long break every 4 cycles.
func DefaultSettings() Settings {
	return Settings{
		WorkDuration:         25,
		ShortBreakDuration:   5,
		LongBreakDuration:    15,
		CyclesUntilLongBreak: 4,
	}
}

// Int returns a pointer to value, for building a SettingsUpdate.
func Int(value int) *int {
	return &value
}

// Validate reports the first field that violates its constraint.
func (settings Settings) Validate() error {
	if settings.WorkDuration <= 0 {
		return fmt.Errorf("%w: work duration must be positive, got %d", ErrInvalidSettings, settings.WorkDuration)
	}
	if settings.ShortBreakDuration <= 0 {
		return fmt.Errorf("%w: short break duration must be positive, got %d", ErrInvalidSettings, settings.ShortBreakDuration)
	}
	if settings.LongBreakDuration <= 0 {
		return fmt.Errorf("%w: long break duration must be positive, got %d", ErrInvalidSettings, settings.LongBreakDuration)
	}
	if settings.CyclesUntilLongBreak < MinCyclesUntilLongBreak {
		return fmt.Errorf("%w: cycles until long break must be at least %d, got %d",
			ErrInvalidSettings, MinCyclesUntilLongBreak, settings.CyclesUntilLongBreak)
	}
	return nil
}

// Apply merges update into a copy of settings and validates the result.
// The receiver is never modified.
func (settings Settings) Apply(update SettingsUpdate) (Settings, error) {
	merged := settings
	if update.WorkDuration != nil {
		merged.WorkDuration = *update.WorkDuration
	}
	if update.ShortBreakDuration != nil {
		merged.ShortBreakDuration = *update.ShortBreakDuration
	}
	if update.LongBreakDuration != nil {
		merged.LongBreakDuration = *update.LongBreakDuration
	}
	if update.CyclesUntilLongBreak != nil {
		merged.CyclesUntilLongBreak = *update.CyclesUntilLongBreak
	}
	if err := merged.Validate(); err != nil {
		return settings, err
	}
	return merged, nil
}

// Update returns a SettingsUpdate that sets every field to the values in settings.
func (settings Settings) Update() SettingsUpdate {
	return SettingsUpdate{
		WorkDuration:         Int(settings.WorkDuration),
		ShortBreakDuration:   Int(settings.ShortBreakDuration),
		LongBreakDuration:    Int(settings.LongBreakDuration),
		CyclesUntilLongBreak: Int(settings.CyclesUntilLongBreak),
	}
}

// DurationOf returns the length of phase in seconds.
func (settings Settings) DurationOf(phase Phase) int {
	switch phase {
	case PhaseWork:
		return settings.WorkDuration * 60
	case PhaseShortBreak:
		return settings.ShortBreakDuration * 60
	case PhaseLongBreak:
		return settings.LongBreakDuration * 60
	default:
		return 0
	}
}

// PhaseDuration returns the length of phase as a time.Duration.
func (settings Settings) PhaseDuration(phase Phase) time.Duration {
	return time.Duration(settings.DurationOf(phase)) * time.Second
}
