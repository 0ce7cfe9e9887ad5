package preferences

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings) error
	onCancel func()

	work          *widget.Select
	shortBreak    *widget.Select
	longBreak     *widget.Select
	cycles        *widget.Select
	idlePause     *widget.Select
	sound         *widget.Check
	notifications *widget.Check
	errorLabel    *widget.Label
}

// New creates a preferences window. onSave returns an error to keep the
// window open with the message shown.
func New(app fyne.App, settings Settings, onSave func(Settings) error) *Window {
	window := app.NewWindow("Focus Timer Settings")

	work := widget.NewSelect(minuteOptions(WorkMinuteChoices), nil)
	shortBreak := widget.NewSelect(minuteOptions(BreakMinuteChoices), nil)
	longBreak := widget.NewSelect(minuteOptions(BreakMinuteChoices), nil)
	cycles := widget.NewSelect(countOptions(CycleChoices), nil)
	idlePause := widget.NewSelect(idleOptions(IdleMinuteChoices), nil)

	sound := widget.NewCheck("Sound cues", nil)
	notifications := widget.NewCheck("Desktop notifications", nil)

	errorLabel := widget.NewLabel("")
	errorLabel.Wrapping = fyne.TextWrapWord

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Work duration", work),
			widget.NewFormItem("Short break", shortBreak),
			widget.NewFormItem("Long break", longBreak),
			widget.NewFormItem("Cycles until long break", cycles),
		),
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		sound,
		notifications,
		widget.NewForm(widget.NewFormItem("Pause work when idle", idlePause)),
		errorLabel,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(420, 420))
	window.SetCloseIntercept(window.Hide)

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		work:          work,
		shortBreak:    shortBreak,
		longBreak:     longBreak,
		cycles:        cycles,
		idlePause:     idlePause,
		sound:         sound,
		notifications: notifications,
		errorLabel:    errorLabel,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		window.Hide()
		prefs.UpdateSettings(prefs.settings)
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.work.SetSelected(minuteOption(settings.Timer.WorkDuration))
	prefs.shortBreak.SetSelected(minuteOption(settings.Timer.ShortBreakDuration))
	prefs.longBreak.SetSelected(minuteOption(settings.Timer.LongBreakDuration))
	prefs.cycles.SetSelected(strconv.Itoa(settings.Timer.CyclesUntilLongBreak))
	prefs.idlePause.SetSelected(idleOption(settings.IdlePauseMinutes))
	prefs.sound.SetChecked(settings.SoundEnabled)
	prefs.notifications.SetChecked(settings.NotificationsEnabled)
	prefs.errorLabel.SetText("")
}

func (prefs *Window) handleSave() {
	settings := FromSelections(prefs.settings, Selections{
		Work:          prefs.work.Selected,
		ShortBreak:    prefs.shortBreak.Selected,
		LongBreak:     prefs.longBreak.Selected,
		Cycles:        prefs.cycles.Selected,
		IdlePause:     prefs.idlePause.Selected,
		Sound:         prefs.sound.Checked,
		Notifications: prefs.notifications.Checked,
	})

	if prefs.onSave != nil {
		if err := prefs.onSave(settings); err != nil {
			prefs.errorLabel.SetText(err.Error())
			return
		}
	}
	prefs.settings = settings
	prefs.errorLabel.SetText("")
	prefs.window.Hide()
}

// Selections is the raw state of the window's widgets.
type Selections struct {
	Work          string
	ShortBreak    string
	LongBreak     string
	Cycles        string
	IdlePause     string
	Sound         bool
	Notifications bool
}

// FromSelections applies widget values on top of base. Unparseable
// selections keep the base value.
func FromSelections(base Settings, selections Selections) Settings {
	settings := base
	if minutes, ok := parseLeadingInt(selections.Work); ok {
		settings.Timer.WorkDuration = minutes
	}
	if minutes, ok := parseLeadingInt(selections.ShortBreak); ok {
		settings.Timer.ShortBreakDuration = minutes
	}
	if minutes, ok := parseLeadingInt(selections.LongBreak); ok {
		settings.Timer.LongBreakDuration = minutes
	}
	if count, ok := parseLeadingInt(selections.Cycles); ok {
		settings.Timer.CyclesUntilLongBreak = count
	}
	if selections.IdlePause == idleOffLabel {
		settings.IdlePauseMinutes = 0
	} else if minutes, ok := parseLeadingInt(selections.IdlePause); ok {
		settings.IdlePauseMinutes = minutes
	}
	settings.SoundEnabled = selections.Sound
	settings.NotificationsEnabled = selections.Notifications
	return settings
}

const idleOffLabel = "Never"

func minuteOption(minutes int) string {
	return fmt.Sprintf("%d min", minutes)
}

func idleOption(minutes int) string {
	if minutes <= 0 {
		return idleOffLabel
	}
	return minuteOption(minutes)
}

func minuteOptions(values []int) []string {
	options := make([]string, 0, len(values))
	for _, value := range values {
		options = append(options, minuteOption(value))
	}
	return options
}

func countOptions(values []int) []string {
	options := make([]string, 0, len(values))
	for _, value := range values {
		options = append(options, strconv.Itoa(value))
	}
	return options
}

func idleOptions(values []int) []string {
	options := make([]string, 0, len(values))
	for _, value := range values {
		options = append(options, idleOption(value))
	}
	return options
}

func parseLeadingInt(value string) (int, bool) {
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
