package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"focustimer/internal/core/timekeeper"
)

const insertTimeout = 5 * time.Second

// Recorder writes every phase transition of one process run to a Store.
type Recorder struct {
	store  *Store
	runID  string
	logger zerolog.Logger
}

// NewRecorder tags rows with a fresh run id.
func NewRecorder(store *Store, logger zerolog.Logger) *Recorder {
	runID := uuid.NewString()
	return &Recorder{
		store:  store,
		runID:  runID,
		logger: logger.With().Str("run_id", runID).Logger(),
	}
}

// RunID returns the id stored with each row.
func (recorder *Recorder) RunID() string {
	return recorder.runID
}

// HandleEvent stores phase transitions and ignores every other event.
func (recorder *Recorder) HandleEvent(event timekeeper.Event) {
	if event.Type != timekeeper.EventPhaseTransitioned {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()

	id, err := recorder.store.Insert(ctx, Transition{
		RunID:          recorder.runID,
		From:           event.From,
		To:             event.To,
		Reason:         string(event.Reason),
		ElapsedSeconds: event.Elapsed,
		TotalCycles:    event.State.TotalCycles,
		OccurredAt:     event.At,
	})
	if err != nil {
		recorder.logger.Error().Err(err).Str("from", event.From.String()).Msg("record transition")
		return
	}
	recorder.logger.Debug().Int64("id", id).Str("from", event.From.String()).Str("to", event.To.String()).Msg("transition recorded")
}
