package main

import (
	"fmt"

	"focustimer/internal/app"
	"focustimer/internal/core/timekeeper"
	"focustimer/internal/history"
	"focustimer/internal/notify"
	"focustimer/internal/sound"
	"focustimer/internal/ui/preferences"
)

// consumers are the event handlers shared by every front end.
type consumers struct {
	notifier *notify.Notifier
	player   *sound.Player
	recorder *history.Recorder
	store    *history.Store
}

func (env *environment) newConsumers(sender notify.Sender, beeper sound.Beeper) *consumers {
	c := &consumers{
		notifier: notify.New(sender, env.logger),
		player:   sound.NewPlayer(beeper, env.logger),
		store:    env.openHistory(),
	}
	if c.store != nil {
		c.recorder = history.NewRecorder(c.store, env.logger)
	}
	c.apply(env.settings)
	return c
}

func (c *consumers) apply(settings preferences.Settings) {
	c.notifier.SetEnabled(settings.NotificationsEnabled)
	c.player.SetEnabled(settings.SoundEnabled)
}

func (c *consumers) handlers() []app.Handler {
	handlers := []app.Handler{c.notifier, c.player}
	if c.recorder != nil {
		handlers = append(handlers, c.recorder)
	}
	return handlers
}

func (c *consumers) close() {
	c.player.Stop()
	c.player.Wait()
	if c.store != nil {
		_ = c.store.Close()
	}
}

// commitPreferences writes updated to disk and only then hands the timer
// settings to keeper, so a failed save leaves both untouched.
func commitPreferences(keeper *timekeeper.TimeKeeper, save func(preferences.Settings) error, updated preferences.Settings) error {
	if err := updated.Timer.Validate(); err != nil {
		return err
	}
	if err := save(updated); err != nil {
		return err
	}
	if _, err := keeper.UpdateSettings(updated.Timer.Update()); err != nil {
		return fmt.Errorf("apply saved settings: %w", err)
	}
	return nil
}
