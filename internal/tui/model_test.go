package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focustimer/internal/core/model"
	"focustimer/internal/core/schedule"
	"focustimer/internal/core/timekeeper"
)

func newTestModel(t *testing.T) (*Model, *timekeeper.TimeKeeper, *schedule.Manual) {
	t.Helper()
	manual := schedule.NewManual(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	keeper, err := timekeeper.New(model.DefaultSettings(), timekeeper.Config{Scheduler: manual})
	require.NoError(t, err)
	t.Cleanup(keeper.Close)
	return NewModel(keeper), keeper, manual
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// pump feeds every queued keeper event through Update.
func pump(t *testing.T, m *Model) {
	t.Helper()
	for {
		select {
		case event := <-m.events:
			m.Update(eventMsg(event))
		default:
			return
		}
	}
}

func TestInitialView(t *testing.T) {
	m, _, _ := newTestModel(t)

	view := m.View()

	assert.Contains(t, view, "Focus Time")
	assert.Contains(t, view, "25:00")
	assert.Contains(t, view, "paused")
	assert.Contains(t, view, "0/4 Until Long Break")
}

func TestKeysDriveKeeper(t *testing.T) {
	m, keeper, manual := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, keeper.State().IsRunning)

	manual.Advance(3 * time.Second)
	pump(t, m)
	assert.Contains(t, m.View(), "24:57")
	assert.NotContains(t, m.View(), "paused")

	m.Update(runeKey('r'))
	assert.False(t, keeper.State().IsRunning)
	assert.Equal(t, 1500, keeper.State().RemainingSeconds)

	m.Update(runeKey('s'))
	pump(t, m)
	assert.Equal(t, model.PhaseShortBreak, keeper.State().Phase)
	assert.Contains(t, m.View(), "Short Break")
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(runeKey('q'))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestWaitForEventReportsClose(t *testing.T) {
	m, keeper, _ := newTestModel(t)
	keeper.Close()

	msg := m.Init()()

	assert.IsType(t, closedMsg{}, msg)
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
}

func TestLowTimeFlagClearsOnTransition(t *testing.T) {
	m, keeper, manual := newTestModel(t)
	_, err := keeper.UpdateSettings(model.SettingsUpdate{WorkDuration: model.Int(1)})
	require.NoError(t, err)
	keeper.Reset()
	keeper.Start()

	for i := 0; i < 55; i++ {
		manual.Advance(time.Second)
		pump(t, m)
	}
	assert.True(t, m.lowTime)

	for i := 0; i < 7; i++ {
		manual.Advance(time.Second)
		pump(t, m)
	}
	assert.False(t, m.lowTime)
	assert.Equal(t, model.PhaseShortBreak, m.state.Phase)
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, defaultBarWidth, barWidth(0))
	assert.Equal(t, 10, barWidth(12))
	assert.Equal(t, maxBarWidth, barWidth(500))
}
