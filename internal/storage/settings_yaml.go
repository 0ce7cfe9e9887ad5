// Package storage persists user preferences as YAML.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"focustimer/internal/core/model"
	"focustimer/internal/platform"
	"focustimer/internal/ui/preferences"
)

const (
	appDirName       = "focustimer"
	settingsFileName = "settings.yaml"
)

type yamlSettings struct {
	WorkMinutes          *int  `yaml:"work_minutes,omitempty"`
	ShortBreakMinutes    *int  `yaml:"short_break_minutes,omitempty"`
	LongBreakMinutes     *int  `yaml:"long_break_minutes,omitempty"`
	CyclesUntilLongBreak *int  `yaml:"cycles_until_long_break,omitempty"`
	SoundEnabled         *bool `yaml:"sound_enabled,omitempty"`
	NotificationsEnabled *bool `yaml:"notifications_enabled,omitempty"`
	IdlePauseMinutes     *int  `yaml:"idle_pause_minutes,omitempty"`
}

// DefaultPath returns settings.yaml under the user config directory.
func DefaultPath(service platform.Service) (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appDirName, settingsFileName), nil
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
// Values that fail validation keep their defaults.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := settings.Timer.Validate(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	timer := settings.Timer
	fileData := yamlSettings{
		WorkMinutes:          model.Int(timer.WorkDuration),
		ShortBreakMinutes:    model.Int(timer.ShortBreakDuration),
		LongBreakMinutes:     model.Int(timer.LongBreakDuration),
		CyclesUntilLongBreak: model.Int(timer.CyclesUntilLongBreak),
		SoundEnabled:         &settings.SoundEnabled,
		NotificationsEnabled: &settings.NotificationsEnabled,
		IdlePauseMinutes:     model.Int(settings.IdlePauseMinutes),
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	// Each timer field is applied on its own so one bad value does not
	// discard the rest of the file.
	fields := []model.SettingsUpdate{
		{WorkDuration: fileData.WorkMinutes},
		{ShortBreakDuration: fileData.ShortBreakMinutes},
		{LongBreakDuration: fileData.LongBreakMinutes},
		{CyclesUntilLongBreak: fileData.CyclesUntilLongBreak},
	}
	for _, update := range fields {
		if merged, err := settings.Timer.Apply(update); err == nil {
			settings.Timer = merged
		}
	}

	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	if fileData.IdlePauseMinutes != nil && *fileData.IdlePauseMinutes >= 0 {
		settings.IdlePauseMinutes = *fileData.IdlePauseMinutes
	}
}
