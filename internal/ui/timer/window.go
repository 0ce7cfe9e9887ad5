package timer

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"focustimer/resources"
)

// Actions are the window's button handlers.
type Actions struct {
	OnToggle func()
	OnReset  func()
	OnSkip   func()
}

// Window manages the countdown UI.
type Window struct {
	window      fyne.Window
	accent      *canvas.Rectangle
	title       *canvas.Text
	description *canvas.Text
	clock       *canvas.Text
	progress    *widget.ProgressBar
	sessions    *widget.Label
	cycles      *widget.Label
	toggle      *widget.Button
}

// New creates the timer window. It starts hidden.
func New(app fyne.App, actions Actions) *Window {
	window := app.NewWindow("Focus Timer")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	accent := canvas.NewRectangle(color.NRGBA{A: 255})
	accent.SetMinSize(fyne.NewSize(0, 6))

	title := canvas.NewText("", white)
	title.Alignment = fyne.TextAlignCenter
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 22

	description := canvas.NewText("", white)
	description.Alignment = fyne.TextAlignCenter
	description.TextSize = 14

	clock := canvas.NewText("--:--", white)
	clock.Alignment = fyne.TextAlignCenter
	clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clock.TextSize = 56

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }

	sessions := widget.NewLabel("")
	cycles := widget.NewLabel("")

	toggle := widget.NewButton("Start", actions.OnToggle)
	reset := widget.NewButton("Reset", actions.OnReset)
	skip := widget.NewButton("Skip", actions.OnSkip)

	content := container.NewVBox(
		accent,
		title,
		description,
		clock,
		progress,
		container.NewHBox(sessions, layout.NewSpacer(), cycles),
		container.NewHBox(layout.NewSpacer(), toggle, reset, skip, layout.NewSpacer()),
	)
	window.SetContent(container.NewPadded(content))
	window.Resize(fyne.NewSize(360, 320))
	// Closing the window keeps the tray app alive.
	window.SetCloseIntercept(window.Hide)

	return &Window{
		window:      window,
		accent:      accent,
		title:       title,
		description: description,
		clock:       clock,
		progress:    progress,
		sessions:    sessions,
		cycles:      cycles,
		toggle:      toggle,
	}
}

// Show displays the window.
func (timerWindow *Window) Show() {
	timerWindow.window.Show()
	timerWindow.window.RequestFocus()
}

// Render updates every widget. Safe to call from any goroutine.
func (timerWindow *Window) Render(view View) {
	fyne.Do(func() {
		timerWindow.renderUnsafe(view)
	})
}

func (timerWindow *Window) renderUnsafe(view View) {
	if accent, err := resources.ParseHexColor(view.Color); err == nil {
		timerWindow.accent.FillColor = accent
		timerWindow.title.Color = accent
		timerWindow.accent.Refresh()
	}
	timerWindow.title.Text = view.Title
	timerWindow.title.Refresh()
	timerWindow.description.Text = view.Description
	timerWindow.description.Refresh()
	timerWindow.clock.Text = view.Clock
	timerWindow.clock.Refresh()
	timerWindow.progress.SetValue(view.Progress)
	timerWindow.sessions.SetText(view.Sessions)
	timerWindow.cycles.SetText(view.Cycles)
	timerWindow.toggle.SetText(view.ToggleLabel)
}
