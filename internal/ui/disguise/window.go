// Package disguise renders the calculator and notes surfaces that hide the
// app, and forwards their input to the trigger detector.
package disguise

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"safecalc/internal/calc"
	"safecalc/internal/settings"
)

// InputSink receives disguise input. *trigger.Detector satisfies it.
type InputSink interface {
	OnDigitEntered(value string, at time.Time)
	OnDisplayChanged(text string)
}

// Window is the disguise shown whenever the app is locked.
type Window struct {
	window     fyne.Window
	mode       settings.DisguiseMode
	calculator *calc.Calculator
	display    *displayLabel
	notes      *widget.Entry
	sink       InputSink
	now        func() time.Time
	onToggle   func()
	notesText  string
}

var keypad = [][]calc.Key{
	{calc.KeyClear, calc.KeyNegate, calc.KeyPercent, calc.KeyDiv},
	{"7", "8", "9", calc.KeyMul},
	{"4", "5", "6", calc.KeySub},
	{"1", "2", "3", calc.KeyAdd},
	{"0", calc.KeyDecimal, calc.KeyEquals},
}

// New creates the disguise window. onToggle runs when the hidden unlock
// gesture (double tap on the display) is used.
func New(app fyne.App, mode settings.DisguiseMode, sink InputSink, now func() time.Time, onToggle func()) *Window {
	if now == nil {
		now = time.Now
	}
	disguise := &Window{
		window:     app.NewWindow(windowTitle(mode)),
		mode:       mode,
		calculator: calc.New(),
		sink:       sink,
		now:        now,
		onToggle:   onToggle,
	}
	if app.Icon() != nil {
		disguise.window.SetIcon(app.Icon())
	}
	disguise.build()
	return disguise
}

// Window exposes the underlying fyne window.
func (disguise *Window) Window() fyne.Window {
	return disguise.window
}

// Show brings the disguise to the front with a cleared display.
func (disguise *Window) Show() {
	disguise.Clear()
	disguise.window.Show()
	disguise.window.RequestFocus()
}

// Hide hides the disguise.
func (disguise *Window) Hide() {
	disguise.window.Hide()
}

// Clear wipes the calculator display and notes.
func (disguise *Window) Clear() {
	disguise.calculator.Press(calc.KeyClear)
	disguise.display.SetText(disguise.calculator.Display())
	if disguise.notes != nil {
		disguise.notesText = ""
		disguise.notes.SetText("")
	}
}

// SetMode rebuilds the window for another disguise.
func (disguise *Window) SetMode(mode settings.DisguiseMode) {
	if mode == disguise.mode {
		return
	}
	disguise.mode = mode
	disguise.window.SetTitle(windowTitle(mode))
	disguise.build()
}

// Press handles a calculator key as if it had been tapped.
func (disguise *Window) Press(key calc.Key) {
	text := disguise.calculator.Press(key)
	disguise.display.SetText(text)
	if disguise.sink == nil {
		return
	}
	if key.IsDigit() {
		disguise.sink.OnDigitEntered(string(key), disguise.now())
	}
	disguise.sink.OnDisplayChanged(text)
}

func (disguise *Window) build() {
	disguise.display = newDisplayLabel(disguise.calculator.Display(), disguise.toggle)

	if disguise.mode == settings.DisguiseNotes {
		disguise.notes = widget.NewMultiLineEntry()
		disguise.notes.SetPlaceHolder("Shopping list")
		disguise.notes.OnChanged = disguise.handleNotesChanged
		disguise.display.SetText("Notes")
		disguise.window.SetContent(container.NewBorder(disguise.display, nil, nil, nil, disguise.notes))
		disguise.window.Resize(fyne.NewSize(320, 420))
		return
	}

	disguise.notes = nil
	rows := make([]fyne.CanvasObject, 0, len(keypad))
	for _, row := range keypad {
		buttons := make([]fyne.CanvasObject, 0, len(row))
		for _, key := range row {
			key := key
			buttons = append(buttons, widget.NewButton(keyLabel(key), func() {
				disguise.Press(key)
			}))
		}
		rows = append(rows, container.NewGridWithColumns(len(row), buttons...))
	}
	disguise.window.SetContent(container.NewBorder(disguise.display, nil, nil, nil, container.NewGridWithRows(len(rows), rows...)))
	disguise.window.Canvas().SetOnTypedRune(func(r rune) {
		if key, ok := keyForRune(r); ok {
			disguise.Press(key)
		}
	})
	disguise.window.Resize(fyne.NewSize(300, 420))
}

func (disguise *Window) handleNotesChanged(text string) {
	previous := disguise.notesText
	disguise.notesText = text
	if disguise.sink == nil {
		return
	}
	at := disguise.now()
	for _, digit := range appendedDigits(previous, text) {
		disguise.sink.OnDigitEntered(digit, at)
	}
	disguise.sink.OnDisplayChanged(lastLine(text))
}

func (disguise *Window) toggle() {
	if disguise.onToggle != nil {
		disguise.onToggle()
	}
}

func windowTitle(mode settings.DisguiseMode) string {
	if mode == settings.DisguiseNotes {
		return "Notes"
	}
	return "Calculator"
}

func keyLabel(key calc.Key) string {
	switch key {
	case calc.KeyMul:
		return "×"
	case calc.KeyDiv:
		return "÷"
	case calc.KeySub:
		return "−"
	default:
		return string(key)
	}
}
