// Package sound plays audible cues for timer events.
package sound

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
)

// Beeper produces a single tone.
type Beeper interface {
	Beep(note Note) error
}

// BellBeeper rings the terminal bell once per note. Terminals cannot
// synthesize a frequency, so only the rhythm of a cue survives.
type BellBeeper struct {
	Writer io.Writer
}

// Beep writes the BEL control character.
func (beeper BellBeeper) Beep(Note) error {
	_, err := beeper.Writer.Write([]byte{'\a'})
	return err
}

// BeeperFunc adapts a function to the Beeper interface.
type BeeperFunc func(Note) error

// Beep calls fn(note).
func (fn BeeperFunc) Beep(note Note) error {
	return fn(note)
}

// Player sequences cues on a Beeper. Starting a cue cancels the one still playing.
type Player struct {
	mu      sync.Mutex
	beeper  Beeper
	logger  zerolog.Logger
	cancel  context.CancelFunc
	enabled atomic.Bool
	sleep   func(context.Context, time.Duration) bool
	wg      sync.WaitGroup
}

// NewPlayer creates an enabled Player.
func NewPlayer(beeper Beeper, logger zerolog.Logger) *Player {
	player := &Player{
		beeper: beeper,
		logger: logger,
		sleep:  sleepWithContext,
	}
	player.enabled.Store(true)
	return player
}

// SetEnabled toggles playback.
func (player *Player) SetEnabled(enabled bool) {
	player.enabled.Store(enabled)
	if !enabled {
		player.Stop()
	}
}

// CueFor returns the cue for event, if any.
func CueFor(event timekeeper.Event) (Cue, bool) {
	switch event.Type {
	case timekeeper.EventStarted:
		return StartCue(), true
	case timekeeper.EventLowTimeTick:
		return TickCue(), true
	case timekeeper.EventPhaseCompleted:
		return CompleteCue(), true
	case timekeeper.EventPhaseTransitioned:
		if event.To == model.PhaseWork {
			return WorkCue(), true
		}
		return BreakCue(), true
	}
	return Cue{}, false
}

// HandleEvent plays the cue for event in the background.
func (player *Player) HandleEvent(event timekeeper.Event) {
	cue, ok := CueFor(event)
	if !ok || !player.enabled.Load() {
		return
	}
	player.Start(context.Background(), cue)
}

// Start plays cue asynchronously.
func (player *Player) Start(parent context.Context, cue Cue) {
	player.mu.Lock()
	if player.cancel != nil {
		player.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	player.cancel = cancel
	player.mu.Unlock()

	player.wg.Add(1)
	go func() {
		defer player.wg.Done()
		player.Play(runCtx, cue)
	}()
}

// Play plays cue and returns when it finished or ctx was cancelled.
// It reports whether every note was played.
func (player *Player) Play(ctx context.Context, cue Cue) bool {
	var elapsed time.Duration
	for _, note := range cue.Notes {
		if wait := note.Offset - elapsed; wait > 0 {
			if !player.sleep(ctx, wait) {
				return false
			}
			elapsed = note.Offset
		}
		if ctx.Err() != nil {
			return false
		}
		if err := player.beeper.Beep(note); err != nil {
			player.logger.Debug().Err(err).Str("cue", cue.Name).Msg("beep failed")
			return false
		}
	}
	return true
}

// Stop cancels the cue that is playing.
func (player *Player) Stop() {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.cancel != nil {
		player.cancel()
		player.cancel = nil
	}
}

// Wait blocks until background cues have returned.
func (player *Player) Wait() {
	player.wg.Wait()
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
