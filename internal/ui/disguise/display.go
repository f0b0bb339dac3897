package disguise

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// displayLabel is the calculator display. A double tap on it is the hidden
// unlock gesture.
type displayLabel struct {
	widget.Label
	onDoubleTap func()
}

func newDisplayLabel(text string, onDoubleTap func()) *displayLabel {
	label := &displayLabel{onDoubleTap: onDoubleTap}
	label.Text = text
	label.Alignment = fyne.TextAlignTrailing
	label.TextStyle = fyne.TextStyle{Monospace: true, Bold: true}
	label.ExtendBaseWidget(label)
	return label
}

func (label *displayLabel) DoubleTapped(*fyne.PointEvent) {
	if label.onDoubleTap != nil {
		label.onDoubleTap()
	}
}
