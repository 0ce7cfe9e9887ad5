// Package tray drives the system tray menu and icon.
package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"focustimer/internal/core/model"
	"focustimer/resources"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowTimer   func()
	OnToggle      func()
	OnReset       func()
	OnSkip        func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	toggleItem *fyne.MenuItem
	resetItem  *fyne.MenuItem
	skipItem   *fyne.MenuItem
	prefsItem  *fyne.MenuItem
	quitItem   *fyne.MenuItem
	callbacks  Callbacks

	phase   model.Phase
	running bool
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		phase:     model.PhaseWork,
	}

	manager.statusItem = fyne.NewMenuItem("Work --:--", func() { call(manager.callbacks.OnShowTimer) })
	manager.toggleItem = fyne.NewMenuItem("Start", func() { call(manager.callbacks.OnToggle) })
	manager.resetItem = fyne.NewMenuItem("Reset", func() { call(manager.callbacks.OnReset) })
	manager.skipItem = fyne.NewMenuItem("Skip", func() { call(manager.callbacks.OnSkip) })
	manager.prefsItem = fyne.NewMenuItem("Preferences", func() { call(manager.callbacks.OnPreferences) })
	manager.quitItem = fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) })
	manager.quitItem.IsQuit = true

	manager.refreshMenu()
	manager.refreshIcon()
	return manager
}

// SetStatus updates the status label, e.g. "Work 12:34".
func (manager *Manager) SetStatus(status string) {
	if manager.statusItem.Label == status {
		return
	}
	manager.statusItem.Label = status
	manager.refreshMenu()
}

// SetState updates the toggle label and the phase icon.
func (manager *Manager) SetState(phase model.Phase, running bool) {
	if phase == manager.phase && running == manager.running {
		return
	}
	manager.phase = phase
	manager.running = running
	if running {
		manager.toggleItem.Label = "Pause"
	} else {
		manager.toggleItem.Label = "Start"
	}
	manager.refreshIcon()
	manager.refreshMenu()
}

func (manager *Manager) refreshIcon() {
	if manager.app == nil {
		return
	}
	if icon, err := resources.PhaseIcon(manager.phase, manager.running); err == nil {
		manager.app.SetSystemTrayIcon(icon)
	}
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Focus Timer",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.toggleItem,
		manager.resetItem,
		manager.skipItem,
		fyne.NewMenuItemSeparator(),
		manager.prefsItem,
		manager.quitItem,
	))
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
