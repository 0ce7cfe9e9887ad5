// Package app wires the phase engine to its event consumers.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"focustimer/internal/core/timekeeper"
)

// EventBuffer is the subscriber buffer used by a Session. Large enough to
// absorb a burst of ticks while a slow handler such as a database insert
// runs.
const EventBuffer = 64

// Handler consumes keeper events.
type Handler interface {
	HandleEvent(event timekeeper.Event)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(event timekeeper.Event)

// HandleEvent calls fn.
func (fn HandlerFunc) HandleEvent(event timekeeper.Event) {
	fn(event)
}

// Session pumps keeper events into handlers, in order, on one goroutine.
type Session struct {
	keeper   *timekeeper.TimeKeeper
	events   <-chan timekeeper.Event
	handlers []Handler
	logger   zerolog.Logger
}

// NewSession subscribes to keeper immediately so no event emitted after
// this call is missed.
func NewSession(keeper *timekeeper.TimeKeeper, logger zerolog.Logger, handlers ...Handler) *Session {
	return &Session{
		keeper:   keeper,
		events:   keeper.Subscribe(EventBuffer),
		handlers: append([]Handler{LogHandler(logger)}, handlers...),
		logger:   logger,
	}
}

// Keeper returns the engine driven by this session.
func (session *Session) Keeper() *timekeeper.TimeKeeper {
	return session.keeper
}

// Run dispatches events until ctx is done or the keeper is closed.
func (session *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-session.events:
			if !ok {
				return nil
			}
			for _, handler := range session.handlers {
				handler.HandleEvent(event)
			}
		}
	}
}

// Toggle starts a paused keeper and pauses a running one.
func Toggle(keeper *timekeeper.TimeKeeper) {
	if keeper.State().IsRunning {
		keeper.Pause()
		return
	}
	keeper.Start()
}

// LogHandler logs transitions at Info and ticks at Debug.
func LogHandler(logger zerolog.Logger) Handler {
	return HandlerFunc(func(event timekeeper.Event) {
		switch event.Type {
		case timekeeper.EventTicked, timekeeper.EventLowTimeTick:
			logger.Debug().
				Str("event", string(event.Type)).
				Str("phase", event.Phase.String()).
				Int("remaining", event.Remaining).
				Msg("tick")
		case timekeeper.EventPhaseTransitioned:
			logger.Info().
				Str("from", event.From.String()).
				Str("to", event.To.String()).
				Str("reason", string(event.Reason)).
				Int("elapsed", event.Elapsed).
				Int("total_cycles", event.State.TotalCycles).
				Msg("phase transitioned")
		default:
			logger.Info().
				Str("event", string(event.Type)).
				Str("phase", event.Phase.String()).
				Int("remaining", event.State.RemainingSeconds).
				Msg("timer event")
		}
	})
}
