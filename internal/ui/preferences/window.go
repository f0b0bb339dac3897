// Package preferences provides the settings window of the unlocked app.
package preferences

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"safecalc/internal/core/model"
	"safecalc/internal/settings"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   settings.Settings
	onSave     func(settings.Settings) error
	disguise   *widget.RadioGroup
	pattern    *widget.Select
	code       *widget.Entry
	sound      *widget.Check
	dark       *widget.Check
	autoLock   *widget.Check
	lockAfter  *widget.Entry
	minutes    *widget.Entry
	in         *widget.Entry
	hold       *widget.Entry
	out        *widget.Entry
	rest       *widget.Entry
	errorLabel *widget.Label
}

// New creates a preferences window. onSave persists and applies the new
// settings; a returned error keeps the window open.
func New(app fyne.App, prefs settings.Settings, onSave func(settings.Settings) error) *Window {
	window := app.NewWindow("Settings")

	form := &Window{
		window:     window,
		settings:   prefs,
		onSave:     onSave,
		disguise:   widget.NewRadioGroup([]string{string(settings.DisguiseCalculator), string(settings.DisguiseNotes)}, nil),
		pattern:    widget.NewSelect([]string{string(model.PatternTripleTap), string(model.PatternCode), string(model.PatternGesture)}, nil),
		code:       widget.NewEntry(),
		sound:      widget.NewCheck("Sound cues (terminal sessions only)", nil),
		dark:       widget.NewCheck("Dark mode", nil),
		autoLock:   widget.NewCheck("Return to disguise when idle", nil),
		lockAfter:  widget.NewEntry(),
		minutes:    widget.NewEntry(),
		in:         widget.NewEntry(),
		hold:       widget.NewEntry(),
		out:        widget.NewEntry(),
		rest:       widget.NewEntry(),
		errorLabel: widget.NewLabel(""),
	}
	form.disguise.Horizontal = true

	content := container.NewVBox(
		widget.NewLabelWithStyle("Disguise", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form.disguise,
		container.NewHBox(widget.NewLabel("Trigger"), form.pattern),
		container.NewHBox(widget.NewLabel("Code"), form.code),
		form.autoLock,
		container.NewHBox(widget.NewLabel("Lock after"), form.lockAfter, widget.NewLabel("sec")),
		widget.NewLabelWithStyle("Breathing", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Session"), form.minutes, widget.NewLabel("min")),
		container.NewGridWithColumns(4,
			widget.NewLabel("In"), widget.NewLabel("Hold"), widget.NewLabel("Out"), widget.NewLabel("Rest"),
			form.in, form.hold, form.out, form.rest,
		),
		form.sound,
		form.dark,
		form.errorLabel,
	)

	saveButton := widget.NewButton("Save", form.handleSave)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, content))
	window.Resize(fyne.NewSize(420, 520))
	window.SetCloseIntercept(window.Hide)

	form.UpdateSettings(prefs)
	return form
}

// Show displays the preferences window.
func (form *Window) Show() {
	form.errorLabel.SetText("")
	form.window.Show()
	form.window.RequestFocus()
}

// Hide hides the preferences window.
func (form *Window) Hide() {
	form.window.Hide()
}

// UpdateSettings replaces window values.
func (form *Window) UpdateSettings(prefs settings.Settings) {
	form.settings = prefs
	values := valuesFromSettings(prefs)
	form.disguise.SetSelected(values.DisguiseMode)
	form.pattern.SetSelected(values.TriggerPattern)
	form.code.SetText(values.TriggerCode)
	form.sound.SetChecked(values.SoundEnabled)
	form.dark.SetChecked(values.DarkMode)
	form.autoLock.SetChecked(values.AutoLock)
	form.lockAfter.SetText(values.AutoLockAfter)
	form.minutes.SetText(values.Minutes)
	form.in.SetText(values.In)
	form.hold.SetText(values.Hold)
	form.out.SetText(values.Out)
	form.rest.SetText(values.Rest)
}

func (form *Window) handleSave() {
	values := formValues{
		DisguiseMode:   form.disguise.Selected,
		TriggerPattern: form.pattern.Selected,
		TriggerCode:    form.code.Text,
		SoundEnabled:   form.sound.Checked,
		DarkMode:       form.dark.Checked,
		AutoLock:       form.autoLock.Checked,
		AutoLockAfter:  form.lockAfter.Text,
		Minutes:        form.minutes.Text,
		In:             form.in.Text,
		Hold:           form.hold.Text,
		Out:            form.out.Text,
		Rest:           form.rest.Text,
	}

	prefs, err := values.apply(form.settings)
	if err != nil {
		form.errorLabel.SetText(err.Error())
		return
	}
	if form.onSave != nil {
		if err := form.onSave(prefs); err != nil {
			form.errorLabel.SetText(err.Error())
			return
		}
	}
	form.settings = prefs
	form.window.Hide()
}
