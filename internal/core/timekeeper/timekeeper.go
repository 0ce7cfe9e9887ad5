package timekeeper

import (
	"sync"
	"time"

	"focustimer/internal/core/model"
	"focustimer/internal/core/schedule"
)

const (
	// DefaultGraceWindow is the pause between a countdown reaching zero and the automatic transition.
	DefaultGraceWindow = 2 * time.Second
	// LowTimeThreshold is the number of final seconds that emit EventLowTimeTick.
	LowTimeThreshold = 10
)

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
	GraceWindow  time.Duration
	Scheduler    schedule.Scheduler
}

// TimeKeeper is the Pomodoro phase state machine. Every command and every
// scheduled callback runs to completion under one lock.
type TimeKeeper struct {
	mu       sync.Mutex
	settings model.Settings
	options  Config

	phase         model.Phase
	remaining     int
	phaseDuration int
	running       bool
	cycleCount    int
	totalCycles   int

	tickHandle    schedule.Handle
	advanceHandle schedule.Handle
	// generation invalidates callbacks that fired but have not yet taken the lock.
	generation uint64

	events []chan Event
	closed bool
}

// New creates a TimeKeeper in the Work phase with a full, paused countdown.
func New(settings model.Settings, options Config) (*TimeKeeper, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.GraceWindow <= 0 {
		options.GraceWindow = DefaultGraceWindow
	}
	if options.Scheduler == nil {
		options.Scheduler = schedule.Real{}
	}

	keeper := &TimeKeeper{
		settings: settings,
		options:  options,
		phase:    model.PhaseWork,
	}
	keeper.remaining = settings.DurationOf(model.PhaseWork)
	keeper.phaseDuration = keeper.remaining
	return keeper, nil
}

// Subscribe registers a new observer channel. Delivery never blocks the
// keeper: an event is dropped for a subscriber whose buffer is full.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Close cancels pending callbacks and closes every observer channel.
// Commands issued afterwards are ignored.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.closed = true
	keeper.running = false
	keeper.cancelPendingLocked()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Start resumes the countdown. It is a no-op while running or at zero.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || keeper.running || keeper.remaining <= 0 {
		return
	}
	keeper.cancelPendingLocked()
	keeper.running = true
	keeper.scheduleTickLocked()
	keeper.emitLocked(Event{Type: EventStarted, Phase: keeper.phase, Remaining: keeper.remaining})
}

// Pause freezes the countdown. Pausing during the grace window holds the
// timer at zero and cancels the automatic transition.
func (keeper *TimeKeeper) Pause() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || (!keeper.running && keeper.advanceHandle == nil) {
		return
	}
	keeper.running = false
	keeper.cancelPendingLocked()
	keeper.emitLocked(Event{Type: EventPaused, Phase: keeper.phase, Remaining: keeper.remaining})
}

// Reset stops the countdown and refills it from the current settings.
func (keeper *TimeKeeper) Reset() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	keeper.cancelPendingLocked()
	keeper.running = false
	keeper.remaining = keeper.settings.DurationOf(keeper.phase)
	keeper.phaseDuration = keeper.remaining
	keeper.emitLocked(Event{Type: EventReset, Phase: keeper.phase, Remaining: keeper.remaining})
}

// Skip ends the current phase immediately, as if its countdown had completed.
func (keeper *TimeKeeper) Skip() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	keeper.cancelPendingLocked()
	keeper.completePhaseLocked(ReasonSkipped)
}

// UpdateSettings validates and stores a partial settings change. The running
// countdown and the current phase are left untouched; the new durations apply
// from the next reset or phase entry. On error the previous settings are kept.
func (keeper *TimeKeeper) UpdateSettings(update model.SettingsUpdate) (model.Settings, error) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	merged, err := keeper.settings.Apply(update)
	if err != nil {
		return keeper.settings, err
	}
	keeper.settings = merged
	// A lowered threshold still sends the next completed work phase to a long break.
	if keeper.cycleCount >= merged.CyclesUntilLongBreak {
		keeper.cycleCount = merged.CyclesUntilLongBreak - 1
	}
	if !keeper.closed {
		keeper.emitLocked(Event{Type: EventSettingsChanged, Phase: keeper.phase, Remaining: keeper.remaining})
	}
	return merged, nil
}

// SetSettings replaces every setting at once.
func (keeper *TimeKeeper) SetSettings(settings model.Settings) error {
	_, err := keeper.UpdateSettings(settings.Update())
	return err
}

// State returns a snapshot of the timer.
func (keeper *TimeKeeper) State() model.TimerState {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.stateLocked()
}

// Settings returns the current settings.
func (keeper *TimeKeeper) Settings() model.Settings {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.settings
}

func (keeper *TimeKeeper) tick(generation uint64) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || generation != keeper.generation {
		return
	}
	keeper.tickHandle = nil
	if !keeper.running || keeper.remaining <= 0 {
		return
	}

	keeper.remaining--
	if keeper.remaining > 0 {
		if keeper.remaining <= LowTimeThreshold {
			keeper.emitLocked(Event{Type: EventLowTimeTick, Phase: keeper.phase, Remaining: keeper.remaining})
		}
		keeper.emitLocked(Event{Type: EventTicked, Phase: keeper.phase, Remaining: keeper.remaining})
		keeper.scheduleTickLocked()
		return
	}

	// Stop and arm the advance before emitting, so the zero tick already
	// carries the awaiting state.
	keeper.running = false
	generationAtCompletion := keeper.generation
	keeper.advanceHandle = keeper.options.Scheduler.AfterFunc(keeper.options.GraceWindow, func() {
		keeper.autoAdvance(generationAtCompletion)
	})
	keeper.emitLocked(Event{Type: EventTicked, Phase: keeper.phase, Remaining: 0})
	keeper.emitLocked(Event{Type: EventPhaseCompleted, Phase: keeper.phase})
}

func (keeper *TimeKeeper) autoAdvance(generation uint64) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || generation != keeper.generation || keeper.advanceHandle == nil {
		return
	}
	keeper.advanceHandle = nil
	keeper.completePhaseLocked(ReasonCompleted)
}

func (keeper *TimeKeeper) completePhaseLocked(reason Reason) {
	from := keeper.phase
	remainingBefore := keeper.remaining
	elapsed := keeper.phaseDuration - keeper.remaining
	if elapsed < 0 {
		elapsed = 0
	}

	next := model.PhaseWork
	if from == model.PhaseWork {
		keeper.cycleCount++
		keeper.totalCycles++
		if keeper.cycleCount >= keeper.settings.CyclesUntilLongBreak {
			next = model.PhaseLongBreak
			keeper.cycleCount = 0
		} else {
			next = model.PhaseShortBreak
		}
	}

	keeper.phase = next
	keeper.remaining = keeper.settings.DurationOf(next)
	keeper.phaseDuration = keeper.remaining
	keeper.running = false

	keeper.emitLocked(Event{
		Type:      EventPhaseTransitioned,
		Phase:     next,
		From:      from,
		To:        next,
		Reason:    reason,
		Remaining: remainingBefore,
		Elapsed:   elapsed,
	})
}

func (keeper *TimeKeeper) scheduleTickLocked() {
	generation := keeper.generation
	keeper.tickHandle = keeper.options.Scheduler.AfterFunc(keeper.options.TickInterval, func() {
		keeper.tick(generation)
	})
}

func (keeper *TimeKeeper) cancelPendingLocked() {
	keeper.generation++
	if keeper.tickHandle != nil {
		keeper.tickHandle.Stop()
		keeper.tickHandle = nil
	}
	if keeper.advanceHandle != nil {
		keeper.advanceHandle.Stop()
		keeper.advanceHandle = nil
	}
}

func (keeper *TimeKeeper) stateLocked() model.TimerState {
	return model.TimerState{
		Phase:                keeper.phase,
		RemainingSeconds:     keeper.remaining,
		IsRunning:            keeper.running,
		CycleCount:           keeper.cycleCount,
		TotalCycles:          keeper.totalCycles,
		PhaseDurationSeconds: keeper.phaseDuration,
		AwaitingAdvance:      keeper.advanceHandle != nil,
	}
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	event.State = keeper.stateLocked()
	event.At = keeper.options.Scheduler.Now()
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
