// Package tui provides the Bubble Tea countdown interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"focustimer/internal/app"
	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
)

const (
	eventBuffer      = 32
	defaultBarWidth  = 40
	maxBarWidth      = 72
	horizontalMargin = 4
)

var (
	clockStyle       = lipgloss.NewStyle().Bold(true).Padding(1, 0)
	descriptionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	counterStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C8C8C8"))
	pausedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	lowTimeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
)

// eventMsg carries one keeper event into the update loop.
type eventMsg timekeeper.Event

// closedMsg signals that the keeper closed its event channel.
type closedMsg struct{}

// Model implements the Bubble Tea countdown UI.
type Model struct {
	keeper *timekeeper.TimeKeeper
	events <-chan timekeeper.Event

	state    model.TimerState
	settings model.Settings
	lowTime  bool

	keys     keyMap
	help     help.Model
	bar      progress.Model
	width    int
	quitting bool
}

// NewModel subscribes to keeper and renders its current state.
func NewModel(keeper *timekeeper.TimeKeeper) *Model {
	return &Model{
		keeper:   keeper,
		events:   keeper.Subscribe(eventBuffer),
		state:    keeper.State(),
		settings: keeper.Settings(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		bar:      newBar(model.PhaseWork),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = barWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case eventMsg:
		m.applyEvent(timekeeper.Event(msg))
		return m, m.waitForEvent()
	case closedMsg:
		m.quitting = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		app.Toggle(m.keeper)
	case key.Matches(msg, m.keys.Reset):
		m.keeper.Reset()
	case key.Matches(msg, m.keys.Skip):
		m.keeper.Skip()
	}
	return m, nil
}

func (m *Model) applyEvent(event timekeeper.Event) {
	previous := m.state.Phase
	m.state = event.State
	switch event.Type {
	case timekeeper.EventLowTimeTick:
		m.lowTime = true
	case timekeeper.EventSettingsChanged:
		m.settings = m.keeper.Settings()
	case timekeeper.EventTicked:
	default:
		m.lowTime = false
	}
	if m.state.Phase != previous {
		m.bar = newBar(m.state.Phase)
		m.bar.Width = barWidth(m.width)
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(event)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	phase := m.state.Phase
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(phase.Color()))

	clock := clockStyle.Render(timekeeper.FormatClock(m.state.RemainingSeconds))
	if m.lowTime && m.state.IsRunning {
		clock = clockStyle.Inherit(lowTimeStyle).Render(timekeeper.FormatClock(m.state.RemainingSeconds))
	}

	status := ""
	if !m.state.IsRunning && !m.state.AwaitingAdvance {
		status = pausedStyle.Render("paused")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(phase.Title()))
	if status != "" {
		b.WriteString("  ")
		b.WriteString(status)
	}
	b.WriteString("\n")
	b.WriteString(descriptionStyle.Render(phase.Description()))
	b.WriteString("\n")
	b.WriteString(clock)
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(timekeeper.Progress(m.state)))
	b.WriteString("\n\n")
	b.WriteString(counterStyle.Render(fmt.Sprintf("Total Sessions: %d   %s Until Long Break",
		m.state.TotalCycles, timekeeper.CyclesLabel(m.state, m.settings))))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return lipgloss.NewStyle().Margin(1, 2).Render(b.String())
}

func newBar(phase model.Phase) progress.Model {
	return progress.New(
		progress.WithWidth(defaultBarWidth),
		progress.WithSolidFill(phase.Color()),
		progress.WithoutPercentage(),
	)
}

func barWidth(windowWidth int) int {
	if windowWidth <= 0 {
		return defaultBarWidth
	}
	width := windowWidth - horizontalMargin*2
	if width > maxBarWidth {
		width = maxBarWidth
	}
	if width < 10 {
		width = 10
	}
	return width
}
