package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"

	"focustimer/internal/app"
	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
	"focustimer/internal/notify"
	"focustimer/internal/platform"
	"focustimer/internal/sound"
	"focustimer/internal/ui/preferences"
	"focustimer/internal/ui/timer"
	"focustimer/internal/ui/tray"
	"focustimer/resources"
)

func newDesktopCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "desktop",
		Short: "Run the system tray app (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDesktop(cmd.Context(), env)
		},
	}
}

func runDesktop(ctx context.Context, env *environment) error {
	logger := env.logger

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Warn().Err(err).Msg("focustimer is already running")
			return nil
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := fyneapp.NewWithID("com.focustimer.app")
	fyneApp.SetIcon(resources.AppIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		return fmt.Errorf("system tray unsupported on this platform")
	}

	keeper, err := env.newKeeper()
	if err != nil {
		return err
	}
	defer keeper.Close()

	sender := notify.Func(func(message notify.Message) error {
		fyne.Do(func() {
			fyneApp.SendNotification(fyne.NewNotification(message.Title, message.Body))
		})
		return nil
	})
	consumers := env.newConsumers(sender, sound.BellBeeper{Writer: os.Stderr})
	defer consumers.close()

	idle := app.NewIdlePauser(keeper, platform.NewIdleProvider(), env.settings.IdlePauseAfter(), logger)

	timerWindow := timer.New(fyneApp, timer.Actions{
		OnToggle: func() { app.Toggle(keeper) },
		OnReset:  keeper.Reset,
		OnSkip:   keeper.Skip,
	})

	prefsWindow := preferences.New(fyneApp, env.settings, func(updated preferences.Settings) error {
		if err := commitPreferences(keeper, env.saveSettings, updated); err != nil {
			logger.Error().Err(err).Str("path", env.settingsPath).Msg("save settings")
			return err
		}
		consumers.apply(updated)
		idle.SetThreshold(updated.IdlePauseAfter())
		return nil
	})

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnShowTimer:   timerWindow.Show,
		OnToggle:      func() { app.Toggle(keeper) },
		OnReset:       keeper.Reset,
		OnSkip:        keeper.Skip,
		OnPreferences: prefsWindow.Show,
		OnQuit:        fyneApp.Quit,
	})

	render := func(state model.TimerState) {
		timerWindow.Render(timer.NewView(state, keeper.Settings()))
		fyne.Do(func() {
			trayManager.SetStatus(timer.StatusLine(state))
			trayManager.SetState(state.Phase, state.IsRunning)
		})
	}
	render(keeper.State())

	handlers := append(consumers.handlers(), app.HandlerFunc(func(event timekeeper.Event) {
		render(event.State)
	}))
	session := app.NewSession(keeper, logger, handlers...)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		_ = session.Run(runCtx)
	}()
	go func() {
		_ = idle.Run(runCtx, app.DefaultIdleCheckInterval)
	}()

	logger.Info().Str("settings", env.settingsPath).Msg("desktop app started")
	timerWindow.Show()
	fyneApp.Run()
	return nil
}
