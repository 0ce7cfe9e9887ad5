package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"focustimer/internal/core/model"
	"focustimer/internal/ui/preferences"
)

func newSettingsCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change saved settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printSettings(cmd.OutOrStdout(), env.settingsPath, env.settings)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printSettings(cmd.OutOrStdout(), env.settingsPath, env.settings)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and save it",
		Long: "Keys: work_minutes, short_break_minutes, long_break_minutes, cycles_until_long_break, " +
			"idle_pause_minutes, sound_enabled, notifications_enabled.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := setSetting(env.settings, args[0], args[1])
			if err != nil {
				return err
			}
			if err := env.saveSettings(updated); err != nil {
				return err
			}
			env.logger.Info().Str("key", args[0]).Str("value", args[1]).Str("path", env.settingsPath).Msg("settings saved")
			return printSettings(cmd.OutOrStdout(), env.settingsPath, updated)
		},
	})
	return cmd
}

type settingsView struct {
	Path                 string `yaml:"path"`
	WorkMinutes          int    `yaml:"work_minutes"`
	ShortBreakMinutes    int    `yaml:"short_break_minutes"`
	LongBreakMinutes     int    `yaml:"long_break_minutes"`
	CyclesUntilLongBreak int    `yaml:"cycles_until_long_break"`
	IdlePauseMinutes     int    `yaml:"idle_pause_minutes"`
	SoundEnabled         bool   `yaml:"sound_enabled"`
	NotificationsEnabled bool   `yaml:"notifications_enabled"`
}

func printSettings(out io.Writer, path string, settings preferences.Settings) error {
	data, err := yaml.Marshal(settingsView{
		Path:                 path,
		WorkMinutes:          settings.Timer.WorkDuration,
		ShortBreakMinutes:    settings.Timer.ShortBreakDuration,
		LongBreakMinutes:     settings.Timer.LongBreakDuration,
		CyclesUntilLongBreak: settings.Timer.CyclesUntilLongBreak,
		IdlePauseMinutes:     settings.IdlePauseMinutes,
		SoundEnabled:         settings.SoundEnabled,
		NotificationsEnabled: settings.NotificationsEnabled,
	})
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// setSetting returns settings with key changed. Timer values are validated.
func setSetting(settings preferences.Settings, key, value string) (preferences.Settings, error) {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")

	switch key {
	case "sound_enabled", "notifications_enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return settings, fmt.Errorf("%s: %w", key, err)
		}
		if key == "sound_enabled" {
			settings.SoundEnabled = enabled
		} else {
			settings.NotificationsEnabled = enabled
		}
		return settings, nil
	}

	number, err := strconv.Atoi(value)
	if err != nil {
		return settings, fmt.Errorf("%s: %w", key, err)
	}

	var update model.SettingsUpdate
	switch key {
	case "work_minutes":
		update.WorkDuration = &number
	case "short_break_minutes":
		update.ShortBreakDuration = &number
	case "long_break_minutes":
		update.LongBreakDuration = &number
	case "cycles_until_long_break":
		update.CyclesUntilLongBreak = &number
	case "idle_pause_minutes":
		if number < 0 {
			return settings, fmt.Errorf("idle_pause_minutes must not be negative, got %d", number)
		}
		settings.IdlePauseMinutes = number
		return settings, nil
	default:
		return settings, fmt.Errorf("unknown setting %q", key)
	}

	timer, err := settings.Timer.Apply(update)
	if err != nil {
		return settings, err
	}
	settings.Timer = timer
	return settings, nil
}
