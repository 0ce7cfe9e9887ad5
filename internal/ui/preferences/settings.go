package preferences

import (
	"time"

	"focustimer/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	Timer model.Settings

	SoundEnabled         bool
	NotificationsEnabled bool
	// IdlePauseMinutes pauses a running work phase after this much
	// inactivity. Zero disables idle auto-pause.
	IdlePauseMinutes int
}

// DefaultSettings returns default settings for focustimer.
func DefaultSettings() Settings {
	return Settings{
		Timer:                model.DefaultSettings(),
		SoundEnabled:         true,
		NotificationsEnabled: true,
		IdlePauseMinutes:     5,
	}
}

// IdlePauseAfter converts IdlePauseMinutes to a duration.
func (settings Settings) IdlePauseAfter() time.Duration {
	if settings.IdlePauseMinutes <= 0 {
		return 0
	}
	return time.Duration(settings.IdlePauseMinutes) * time.Minute
}

// Choices offered by the preferences window.
var (
	WorkMinuteChoices  = []int{15, 20, 25, 30, 45, 60}
	BreakMinuteChoices = []int{5, 10, 15, 20, 30}
	CycleChoices       = []int{2, 3, 4, 5, 6}
	IdleMinuteChoices  = []int{0, 2, 5, 10, 15}
)
