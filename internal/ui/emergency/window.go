// Package emergency shows the screen opened by the covert trigger.
package emergency

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"safecalc/internal/settings"
)

// DefaultMessage is the prefilled alert text.
const DefaultMessage = "I need help. This is an emergency."

// Callbacks defines the emergency screen actions.
type Callbacks struct {
	OnBreathe func()
	OnSafe    func()
}

// Window is the emergency screen.
type Window struct {
	window    fyne.Window
	message   *widget.Entry
	preview   *widget.Label
	contacts  []settings.Contact
	safe      *widget.Button
	callbacks Callbacks
	now       func() time.Time
}

// New creates the emergency window.
func New(app fyne.App, now func() time.Time, callbacks Callbacks) *Window {
	if now == nil {
		now = time.Now
	}
	window := app.NewWindow("Emergency Response")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	title := canvas.NewText("Emergency Mode Activated", color.NRGBA{R: 198, G: 40, B: 40, A: 255})
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 20

	emergency := &Window{
		window:    window,
		message:   widget.NewMultiLineEntry(),
		preview:   widget.NewLabel(""),
		callbacks: callbacks,
		now:       now,
	}
	emergency.preview.Wrapping = fyne.TextWrapWord
	emergency.message.SetText(DefaultMessage)
	emergency.message.OnChanged = func(string) {
		emergency.refreshPreview()
	}

	breatheButton := widget.NewButton("Go to breathing exercise", func() {
		if emergency.callbacks.OnBreathe != nil {
			emergency.callbacks.OnBreathe()
		}
	})
	breatheButton.Importance = widget.HighImportance
	emergency.safe = widget.NewButton("I'm safe", func() {
		if emergency.callbacks.OnSafe != nil {
			emergency.callbacks.OnSafe()
		}
	})

	form := container.NewVBox(
		title,
		widget.NewLabel("You've activated emergency mode. Take a moment, you are not alone."),
		widget.NewLabelWithStyle("Emergency message", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		emergency.message,
		widget.NewLabelWithStyle("Preview", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		emergency.preview,
	)
	window.SetContent(container.NewBorder(nil, container.NewVBox(breatheButton, emergency.safe), nil, nil, form))
	window.Resize(fyne.NewSize(380, 480))
	window.SetCloseIntercept(emergency.dismiss)
	return emergency
}

// Show opens the screen with a fresh preview.
func (emergency *Window) Show() {
	emergency.refreshPreview()
	emergency.window.Show()
	emergency.window.RequestFocus()
}

// SetContacts replaces the contacts listed in the preview.
func (emergency *Window) SetContacts(contacts []settings.Contact) {
	emergency.contacts = append([]settings.Contact(nil), contacts...)
	emergency.refreshPreview()
}

// Hide hides the screen. Emergency mode stays active.
func (emergency *Window) Hide() {
	emergency.window.Hide()
}

// dismiss handles the window close button. Only "I'm safe" resolves the
// emergency.
func (emergency *Window) dismiss() {
	emergency.Hide()
}

func (emergency *Window) refreshPreview() {
	emergency.preview.SetText(FormatAlert(emergency.message.Text, emergency.contacts, emergency.now()))
}
