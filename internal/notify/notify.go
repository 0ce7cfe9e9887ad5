// Package notify turns phase events into user facing notifications.
package notify

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
)

// Kind classifies a notification.
type Kind string

const (
	KindWorkStart      Kind = "work_start"
	KindBreakStart     Kind = "break_start"
	KindLongBreakStart Kind = "long_break_start"
	KindPhaseComplete  Kind = "phase_complete"
)

// Message is a rendered notification.
type Message struct {
	Kind  Kind
	Title string
	Body  string
	Color string
}

// Sender delivers a message to the user.
type Sender interface {
	Send(message Message) error
}

// ForEvent renders the notification for event, if it warrants one.
func ForEvent(event timekeeper.Event) (Message, bool) {
	switch event.Type {
	case timekeeper.EventPhaseTransitioned:
		switch event.To {
		case model.PhaseWork:
			return Message{
				Kind:  KindWorkStart,
				Title: "🍅 Time to Focus!",
				Body:  "Let's get productive! Focus on your most important task.",
				Color: "#ec4899",
			}, true
		case model.PhaseLongBreak:
			return Message{
				Kind:  KindLongBreakStart,
				Title: "🌴 Long Break!",
				Body:  "Excellent focus! Enjoy a longer break - you've earned it!",
				Color: "#3b82f6",
			}, true
		case model.PhaseShortBreak:
			return Message{
				Kind:  KindBreakStart,
				Title: "☕ Break Time!",
				Body:  "Great work! Take a moment to rest and recharge.",
				Color: "#10b981",
			}, true
		}
	case timekeeper.EventPhaseCompleted:
		return Message{
			Kind:  KindPhaseComplete,
			Title: "✅ Phase Complete!",
			Body:  fmt.Sprintf("%s session completed successfully!", event.Phase.Title()),
			Color: "#8b5cf6",
		}, true
	}
	return Message{}, false
}

// Notifier forwards notifications for engine events to a Sender.
type Notifier struct {
	sender  Sender
	logger  zerolog.Logger
	enabled atomic.Bool
}

// New creates an enabled Notifier.
func New(sender Sender, logger zerolog.Logger) *Notifier {
	notifier := &Notifier{sender: sender, logger: logger}
	notifier.enabled.Store(true)
	return notifier
}

// SetEnabled toggles delivery.
func (notifier *Notifier) SetEnabled(enabled bool) {
	notifier.enabled.Store(enabled)
}

// HandleEvent sends the notification for event. Delivery failures are logged
// and never reach the engine.
func (notifier *Notifier) HandleEvent(event timekeeper.Event) {
	message, ok := ForEvent(event)
	if !ok || !notifier.enabled.Load() {
		return
	}
	if err := notifier.sender.Send(message); err != nil {
		notifier.logger.Warn().Err(err).Str("kind", string(message.Kind)).Msg("send notification")
	}
}

// WriterSender prints notifications as single lines, for terminal front ends.
type WriterSender struct {
	Writer io.Writer
}

// Send writes "title  body" followed by a newline.
func (sender WriterSender) Send(message Message) error {
	_, err := fmt.Fprintf(sender.Writer, "%s  %s\n", message.Title, message.Body)
	return err
}

// Func adapts a function to the Sender interface.
type Func func(Message) error

// Send calls fn(message).
func (fn Func) Send(message Message) error {
	return fn(message)
}
