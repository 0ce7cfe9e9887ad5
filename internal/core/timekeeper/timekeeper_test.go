package timekeeper

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focustimer/internal/core/model"
	"focustimer/internal/core/schedule"
)

var epoch = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestKeeper(t *testing.T, settings model.Settings) (*TimeKeeper, *schedule.Manual, <-chan Event) {
	t.Helper()
	manual := schedule.NewManual(epoch)
	keeper, err := New(settings, Config{Scheduler: manual})
	require.NoError(t, err)
	events := keeper.Subscribe(10000)
	t.Cleanup(keeper.Close)
	return keeper, manual, events
}

func drain(events <-chan Event) []Event {
	var out []Event
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, event)
		default:
			return out
		}
	}
}

func ofType(events []Event, eventType EventType) []Event {
	var out []Event
	for _, event := range events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// runPhaseToEnd starts the current phase and lets it count down and auto-advance.
func runPhaseToEnd(keeper *TimeKeeper, manual *schedule.Manual) {
	keeper.Start()
	manual.Advance(seconds(keeper.State().RemainingSeconds) + DefaultGraceWindow)
}

func TestNewStartsPausedInWork(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, model.DefaultSettings())

	state := keeper.State()
	assert.Equal(t, model.PhaseWork, state.Phase)
	assert.Equal(t, 1500, state.RemainingSeconds)
	assert.Equal(t, 1500, state.PhaseDurationSeconds)
	assert.False(t, state.IsRunning)
	assert.Zero(t, state.CycleCount)
	assert.Zero(t, state.TotalCycles)
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	settings := model.DefaultSettings()
	settings.CyclesUntilLongBreak = 1

	keeper, err := New(settings, Config{})

	require.ErrorIs(t, err, model.ErrInvalidSettings)
	assert.Nil(t, keeper)
}

func TestWorkCountdownCompletesAndAutoAdvances(t *testing.T) {
	keeper, manual, events := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(1500))

	state := keeper.State()
	assert.Zero(t, state.RemainingSeconds)
	assert.False(t, state.IsRunning)
	assert.True(t, state.AwaitingAdvance)
	assert.Equal(t, model.PhaseWork, state.Phase)

	got := drain(events)
	require.NotEmpty(t, got)
	assert.Equal(t, EventStarted, got[0].Type)
	assert.Len(t, ofType(got, EventTicked), 1500)
	assert.Len(t, ofType(got, EventLowTimeTick), 10)
	zeroTick := got[len(got)-2]
	assert.Equal(t, EventTicked, zeroTick.Type)
	assert.Zero(t, zeroTick.Remaining)
	assert.False(t, zeroTick.State.IsRunning, "a zero tick never reports a running timer")
	assert.True(t, zeroTick.State.AwaitingAdvance)
	last := got[len(got)-1]
	assert.Equal(t, EventPhaseCompleted, last.Type)
	assert.Equal(t, model.PhaseWork, last.Phase)
	assert.Empty(t, ofType(got, EventPhaseTransitioned))

	manual.Advance(DefaultGraceWindow - time.Millisecond)
	assert.Equal(t, model.PhaseWork, keeper.State().Phase, "grace window not yet over")

	manual.Advance(time.Millisecond)
	state = keeper.State()
	assert.Equal(t, model.PhaseShortBreak, state.Phase)
	assert.Equal(t, 300, state.RemainingSeconds)
	assert.Equal(t, 1, state.CycleCount)
	assert.Equal(t, 1, state.TotalCycles)
	assert.False(t, state.IsRunning)
	assert.False(t, state.AwaitingAdvance)

	transitions := ofType(drain(events), EventPhaseTransitioned)
	require.Len(t, transitions, 1)
	assert.Equal(t, model.PhaseWork, transitions[0].From)
	assert.Equal(t, model.PhaseShortBreak, transitions[0].To)
	assert.Equal(t, ReasonCompleted, transitions[0].Reason)
	assert.Equal(t, 1500, transitions[0].Elapsed)
	assert.Equal(t, epoch.Add(seconds(1502)), transitions[0].At)
}

func TestFourthWorkCompletionEntersLongBreak(t *testing.T) {
	keeper, manual, _ := newTestKeeper(t, model.DefaultSettings())

	for i := 0; i < 3; i++ {
		runPhaseToEnd(keeper, manual)
		require.Equal(t, model.PhaseShortBreak, keeper.State().Phase)
		require.Equal(t, i+1, keeper.State().CycleCount)
		runPhaseToEnd(keeper, manual)
		require.Equal(t, model.PhaseWork, keeper.State().Phase)
	}
	require.Equal(t, 3, keeper.State().CycleCount)

	runPhaseToEnd(keeper, manual)

	state := keeper.State()
	assert.Equal(t, model.PhaseLongBreak, state.Phase)
	assert.Equal(t, 900, state.RemainingSeconds)
	assert.Zero(t, state.CycleCount)
	assert.Equal(t, 4, state.TotalCycles)

	runPhaseToEnd(keeper, manual)
	assert.Equal(t, model.PhaseWork, keeper.State().Phase)
	assert.Zero(t, keeper.State().CycleCount)
}

func TestSkipMidCountdownMatchesCompletion(t *testing.T) {
	keeper, manual, events := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(700))
	require.Equal(t, 800, keeper.State().RemainingSeconds)

	keeper.Skip()

	state := keeper.State()
	assert.Equal(t, model.PhaseShortBreak, state.Phase)
	assert.Equal(t, 300, state.RemainingSeconds)
	assert.Equal(t, 1, state.CycleCount)
	assert.Equal(t, 1, state.TotalCycles)
	assert.False(t, state.IsRunning)

	transitions := ofType(drain(events), EventPhaseTransitioned)
	require.Len(t, transitions, 1)
	assert.Equal(t, ReasonSkipped, transitions[0].Reason)
	assert.Equal(t, 800, transitions[0].Remaining)
	assert.Equal(t, 700, transitions[0].Elapsed)

	manual.Advance(time.Hour)
	assert.Equal(t, 300, keeper.State().RemainingSeconds, "skip leaves the next phase paused")
}

func TestSkipRollsOverIntoLongBreak(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, model.DefaultSettings())

	for i := 0; i < 3; i++ {
		keeper.Skip() // work
		keeper.Skip() // short break
	}
	keeper.Skip()

	state := keeper.State()
	assert.Equal(t, model.PhaseLongBreak, state.Phase)
	assert.Zero(t, state.CycleCount)
	assert.Equal(t, 4, state.TotalCycles)
}

func TestSkippingBreaksDoesNotCountCycles(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, model.DefaultSettings())

	keeper.Skip()
	keeper.Skip()

	state := keeper.State()
	assert.Equal(t, model.PhaseWork, state.Phase)
	assert.Equal(t, 1, state.CycleCount)
	assert.Equal(t, 1, state.TotalCycles)
}

func TestSettingsChangeDoesNotTouchRunningCountdown(t *testing.T) {
	keeper, manual, events := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(500))
	require.Equal(t, 1000, keeper.State().RemainingSeconds)

	settings, err := keeper.UpdateSettings(model.SettingsUpdate{WorkDuration: model.Int(30)})
	require.NoError(t, err)
	assert.Equal(t, 30, settings.WorkDuration)

	state := keeper.State()
	assert.Equal(t, 1000, state.RemainingSeconds)
	assert.Equal(t, model.PhaseWork, state.Phase)
	assert.True(t, state.IsRunning)
	assert.Len(t, ofType(drain(events), EventSettingsChanged), 1)

	keeper.Reset()
	state = keeper.State()
	assert.Equal(t, 1800, state.RemainingSeconds)
	assert.False(t, state.IsRunning)
}

func TestSettingsChangeAppliesToNextPhase(t *testing.T) {
	keeper, manual, _ := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(10))
	_, err := keeper.UpdateSettings(model.SettingsUpdate{ShortBreakDuration: model.Int(10)})
	require.NoError(t, err)

	keeper.Skip()
	assert.Equal(t, 600, keeper.State().RemainingSeconds)
}

func TestInvalidSettingsRejected(t *testing.T) {
	keeper, _, events := newTestKeeper(t, model.DefaultSettings())

	settings, err := keeper.UpdateSettings(model.SettingsUpdate{CyclesUntilLongBreak: model.Int(1)})

	require.ErrorIs(t, err, model.ErrInvalidSettings)
	assert.Equal(t, model.DefaultSettings(), settings)
	assert.Equal(t, model.DefaultSettings(), keeper.Settings())
	assert.Empty(t, ofType(drain(events), EventSettingsChanged))
}

func TestSetSettingsReplacesAllFields(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, model.DefaultSettings())
	target := model.Settings{WorkDuration: 50, ShortBreakDuration: 10, LongBreakDuration: 30, CyclesUntilLongBreak: 2}

	require.NoError(t, keeper.SetSettings(target))
	assert.Equal(t, target, keeper.Settings())

	assert.ErrorIs(t, keeper.SetSettings(model.Settings{}), model.ErrInvalidSettings)
	assert.Equal(t, target, keeper.Settings())
}

func TestLoweringThresholdKeepsCycleCountInRange(t *testing.T) {
	keeper, _, _ := newTestKeeper(t, model.DefaultSettings())
	for i := 0; i < 3; i++ {
		keeper.Skip()
		keeper.Skip()
	}
	require.Equal(t, 3, keeper.State().CycleCount)

	_, err := keeper.UpdateSettings(model.SettingsUpdate{CyclesUntilLongBreak: model.Int(2)})
	require.NoError(t, err)
	assert.Equal(t, 1, keeper.State().CycleCount)

	keeper.Skip()
	assert.Equal(t, model.PhaseLongBreak, keeper.State().Phase)
}

func TestResetDuringGraceWindowCancelsAutoAdvance(t *testing.T) {
	keeper, manual, events := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(1500) + time.Second)
	require.True(t, keeper.State().AwaitingAdvance)

	keeper.Reset()
	manual.Advance(time.Minute)

	state := keeper.State()
	assert.Equal(t, model.PhaseWork, state.Phase)
	assert.Equal(t, 1500, state.RemainingSeconds)
	assert.False(t, state.IsRunning)
	assert.False(t, state.AwaitingAdvance)
	assert.Zero(t, state.TotalCycles)
	assert.Empty(t, ofType(drain(events), EventPhaseTransitioned))
	assert.Zero(t, manual.Pending())
}

func TestSkipDuringGraceWindowTransitionsOnce(t *testing.T) {
	keeper, manual, events := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(1500))
	keeper.Skip()
	manual.Advance(time.Minute)

	state := keeper.State()
	assert.Equal(t, model.PhaseShortBreak, state.Phase)
	assert.Equal(t, 1, state.CycleCount)
	assert.Equal(t, 1, state.TotalCycles)

	transitions := ofType(drain(events), EventPhaseTransitioned)
	require.Len(t, transitions, 1)
	assert.Equal(t, ReasonSkipped, transitions[0].Reason)
}

func TestPauseDuringGraceWindowHoldsAtZero(t *testing.T) {
	keeper, manual, events := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(1500))
	keeper.Pause()
	manual.Advance(time.Minute)

	state := keeper.State()
	assert.Equal(t, model.PhaseWork, state.Phase)
	assert.Zero(t, state.RemainingSeconds)
	assert.False(t, state.AwaitingAdvance)
	got := drain(events)
	assert.Len(t, ofType(got, EventPaused), 1)
	assert.Empty(t, ofType(got, EventPhaseTransitioned))

	keeper.Start()
	assert.False(t, keeper.State().IsRunning, "start at zero is a no-op")

	keeper.Skip()
	assert.Equal(t, model.PhaseShortBreak, keeper.State().Phase)
}

func TestStartDuringGraceWindowIsNoop(t *testing.T) {
	keeper, manual, _ := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(1500))
	keeper.Start()
	require.True(t, keeper.State().AwaitingAdvance)

	manual.Advance(DefaultGraceWindow)
	assert.Equal(t, model.PhaseShortBreak, keeper.State().Phase)
}

func TestStaleCallbacksAreIgnored(t *testing.T) {
	keeper, manual, _ := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(1500))
	staleGeneration := keeper.generation
	keeper.Reset()

	// A callback that fired before Reset but only now obtains the lock.
	keeper.autoAdvance(staleGeneration)
	keeper.tick(staleGeneration)

	state := keeper.State()
	assert.Equal(t, model.PhaseWork, state.Phase)
	assert.Equal(t, 1500, state.RemainingSeconds)
}

func TestStaleTickAfterPauseIsIgnored(t *testing.T) {
	keeper, manual, _ := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(5))
	staleGeneration := keeper.generation
	keeper.Pause()

	keeper.tick(staleGeneration)

	assert.Equal(t, 1495, keeper.State().RemainingSeconds)
}

func TestPauseAndStartAreIdempotent(t *testing.T) {
	keeper, manual, events := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	keeper.Start()
	manual.Advance(seconds(10))
	assert.Equal(t, 1490, keeper.State().RemainingSeconds, "a second start must not double the tick rate")

	keeper.Pause()
	keeper.Pause()
	manual.Advance(seconds(10))
	assert.Equal(t, 1490, keeper.State().RemainingSeconds)
	assert.False(t, keeper.State().IsRunning)

	got := drain(events)
	assert.Len(t, ofType(got, EventStarted), 1)
	assert.Len(t, ofType(got, EventPaused), 1)
}

func TestPauseResumeContinuesCountdown(t *testing.T) {
	keeper, manual, _ := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(100))
	keeper.Pause()
	manual.Advance(seconds(100))
	keeper.Start()
	manual.Advance(seconds(100))

	assert.Equal(t, 1300, keeper.State().RemainingSeconds)
}

func TestLowTimeTickPrecedesTick(t *testing.T) {
	settings := model.DefaultSettings()
	settings.WorkDuration = 1
	keeper, manual, events := newTestKeeper(t, settings)

	keeper.Start()
	manual.Advance(seconds(60))

	got := drain(events)
	low := ofType(got, EventLowTimeTick)
	require.Len(t, low, 10)
	assert.Equal(t, 10, low[0].Remaining)
	assert.Equal(t, 1, low[9].Remaining)

	for index, event := range got {
		if event.Type != EventLowTimeTick {
			continue
		}
		require.Less(t, index+1, len(got))
		next := got[index+1]
		assert.Equal(t, EventTicked, next.Type)
		assert.Equal(t, event.Remaining, next.Remaining)
	}

	ticks := ofType(got, EventTicked)
	assert.Equal(t, 59, ticks[0].Remaining)
	assert.Equal(t, 0, ticks[len(ticks)-1].Remaining)
}

func TestEventsCarryStateSnapshotAndTime(t *testing.T) {
	keeper, manual, events := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(3))

	ticks := ofType(drain(events), EventTicked)
	require.Len(t, ticks, 3)
	assert.Equal(t, 1497, ticks[2].State.RemainingSeconds)
	assert.True(t, ticks[2].State.IsRunning)
	assert.Equal(t, epoch.Add(seconds(3)), ticks[2].At)
}

func TestSlowSubscriberDoesNotBlock(t *testing.T) {
	keeper, manual, _ := newTestKeeper(t, model.DefaultSettings())
	slow := keeper.Subscribe(1)

	keeper.Start()
	manual.Advance(seconds(100))

	assert.Equal(t, 1400, keeper.State().RemainingSeconds)
	got := drain(slow)
	require.Len(t, got, 1)
	assert.Equal(t, EventStarted, got[0].Type, "first event wins, later ones are dropped")
}

func TestCloseStopsEverything(t *testing.T) {
	keeper, manual, events := newTestKeeper(t, model.DefaultSettings())

	keeper.Start()
	manual.Advance(seconds(5))
	keeper.Close()
	keeper.Close()

	manual.Advance(time.Minute)
	keeper.Start()
	keeper.Skip()

	state := keeper.State()
	assert.Equal(t, 1495, state.RemainingSeconds)
	assert.Equal(t, model.PhaseWork, state.Phase)
	drain(events)
	_, open := <-events
	assert.False(t, open)

	late := keeper.Subscribe(4)
	_, open = <-late
	assert.False(t, open)
}

func TestInvariantsHoldUnderRandomCommands(t *testing.T) {
	keeper, manual, _ := newTestKeeper(t, model.DefaultSettings())
	rng := rand.New(rand.NewSource(42))
	previousTotal := 0

	for step := 0; step < 2000; step++ {
		switch rng.Intn(7) {
		case 0:
			keeper.Start()
		case 1:
			keeper.Pause()
		case 2:
			keeper.Reset()
		case 3:
			keeper.Skip()
		case 4:
			_, _ = keeper.UpdateSettings(model.SettingsUpdate{
				CyclesUntilLongBreak: model.Int(1 + rng.Intn(6)),
				WorkDuration:         model.Int(1 + rng.Intn(3)),
			})
		default:
			keeper.Start()
			manual.Advance(seconds(rng.Intn(200)))
		}

		state := keeper.State()
		settings := keeper.Settings()
		require.GreaterOrEqual(t, state.CycleCount, 0)
		require.Less(t, state.CycleCount, settings.CyclesUntilLongBreak)
		require.GreaterOrEqual(t, state.TotalCycles, previousTotal)
		require.GreaterOrEqual(t, state.RemainingSeconds, 0)
		require.LessOrEqual(t, state.RemainingSeconds, state.PhaseDurationSeconds)
		previousTotal = state.TotalCycles
	}
}
