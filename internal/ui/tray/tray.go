// Package tray manages the system tray menu, labelled as a calculator.
package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnBreathe     func()
	OnPreferences func()
	OnLock        func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	lockItem   *fyne.MenuItem
	callbacks  Callbacks
	status     string
	unlocked   bool
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		status:    "ready",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.lockItem = fyne.NewMenuItem("Lock", invoke(&manager.callbacks.OnLock))
	manager.lockItem.Disabled = true

	manager.refreshStatus()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	manager.status = status
	manager.refreshStatus()
}

// SetUnlocked enables the private entries while the real app is open.
func (manager *Manager) SetUnlocked(unlocked bool) {
	manager.unlocked = unlocked
	manager.lockItem.Disabled = !unlocked
	manager.refreshMenu()
}

func (manager *Manager) refreshStatus() {
	manager.statusItem.Label = statusLabel(manager.status)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	items := []*fyne.MenuItem{
		manager.statusItem,
		fyne.NewMenuItem("Show Calculator", invoke(&manager.callbacks.OnShow)),
	}
	if manager.unlocked {
		items = append(items,
			fyne.NewMenuItem("Breathe", invoke(&manager.callbacks.OnBreathe)),
			fyne.NewMenuItem("Settings", invoke(&manager.callbacks.OnPreferences)),
		)
	}
	items = append(items, manager.lockItem, fyne.NewMenuItem("Quit", invoke(&manager.callbacks.OnQuit)))
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Calculator", items...))
}

func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}

func statusLabel(status string) string {
	if status == "" {
		status = "ready"
	}
	return fmt.Sprintf("Calculator: %s", status)
}
