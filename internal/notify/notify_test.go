package notify

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
)

func TestForEventTransitions(t *testing.T) {
	tests := []struct {
		to   model.Phase
		kind Kind
	}{
		{model.PhaseWork, KindWorkStart},
		{model.PhaseShortBreak, KindBreakStart},
		{model.PhaseLongBreak, KindLongBreakStart},
	}

	for _, tt := range tests {
		message, ok := ForEvent(timekeeper.Event{Type: timekeeper.EventPhaseTransitioned, To: tt.to})
		require.True(t, ok)
		assert.Equal(t, tt.kind, message.Kind)
		assert.NotEmpty(t, message.Title)
	}
}

func TestForEventCompletionNamesPhase(t *testing.T) {
	message, ok := ForEvent(timekeeper.Event{Type: timekeeper.EventPhaseCompleted, Phase: model.PhaseWork})

	require.True(t, ok)
	assert.Equal(t, KindPhaseComplete, message.Kind)
	assert.Equal(t, "Focus Time session completed successfully!", message.Body)
}

func TestForEventIgnoresTicks(t *testing.T) {
	_, ok := ForEvent(timekeeper.Event{Type: timekeeper.EventTicked})
	assert.False(t, ok)
	_, ok = ForEvent(timekeeper.Event{Type: timekeeper.EventLowTimeTick})
	assert.False(t, ok)
}

func TestNotifierHonoursEnabledFlag(t *testing.T) {
	var sent []Message
	notifier := New(Func(func(message Message) error {
		sent = append(sent, message)
		return nil
	}), zerolog.Nop())
	event := timekeeper.Event{Type: timekeeper.EventPhaseTransitioned, To: model.PhaseShortBreak}

	notifier.HandleEvent(event)
	notifier.SetEnabled(false)
	notifier.HandleEvent(event)

	assert.Len(t, sent, 1)
}

func TestNotifierLogsSendFailure(t *testing.T) {
	var logs bytes.Buffer
	notifier := New(Func(func(Message) error {
		return errors.New("permission denied")
	}), zerolog.New(&logs))

	notifier.HandleEvent(timekeeper.Event{Type: timekeeper.EventPhaseCompleted, Phase: model.PhaseLongBreak})

	assert.Contains(t, logs.String(), "permission denied")
	assert.Contains(t, logs.String(), "phase_complete")
}

func TestWriterSender(t *testing.T) {
	var out bytes.Buffer

	err := WriterSender{Writer: &out}.Send(Message{Title: "Break Time!", Body: "Rest."})

	require.NoError(t, err)
	assert.Equal(t, "Break Time!  Rest.\n", out.String())
}
