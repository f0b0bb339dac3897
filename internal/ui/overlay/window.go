// Package overlay shows the guided breathing session.
package overlay

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"safecalc/internal/core/breathing"
	"safecalc/internal/ui/animation"
)

// Callbacks defines the session controls.
type Callbacks struct {
	OnStart func()
	OnPause func()
	OnReset func()
	OnClose func()
}

// Window renders a breathing session driven by controller events.
type Window struct {
	window      fyne.Window
	circle      *canvas.Circle
	phaseLabel  *canvas.Text
	cycleLabel  *widget.Label
	timerLabel  *canvas.Text
	startButton *widget.Button
	circleArea  *fyne.Container
	layout      *circleLayout
	engine      *animation.Engine
	callbacks   Callbacks
	cancelCtx   context.CancelFunc
	lastActive  bool
}

var (
	circleColor = color.NRGBA{R: 94, G: 163, B: 201, A: 220}
	textColor   = color.NRGBA{R: 40, G: 52, B: 64, A: 255}
	timerColor  = color.NRGBA{R: 94, G: 120, B: 140, A: 255}
)

// New creates the breathing window. The engine is wired to the circle.
func New(app fyne.App, callbacks Callbacks) *Window {
	window := app.NewWindow("Breathe")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	circle := canvas.NewCircle(circleColor)

	phaseLabel := canvas.NewText(breathing.PhaseRest.Instruction(), textColor)
	phaseLabel.Alignment = fyne.TextAlignCenter
	phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	phaseLabel.TextSize = 22

	timerLabel := canvas.NewText("--:--", timerColor)
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextSize = 16

	cycleLabel := widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})

	overlay := &Window{
		window:     window,
		circle:     circle,
		phaseLabel: phaseLabel,
		cycleLabel: cycleLabel,
		timerLabel: timerLabel,
		callbacks:  callbacks,
		layout:     &circleLayout{scale: animation.DefaultConfig().MinScale},
	}

	overlay.startButton = widget.NewButton("Start", overlay.handleStartPause)
	resetButton := widget.NewButton("Reset", func() {
		if overlay.callbacks.OnReset != nil {
			overlay.callbacks.OnReset()
		}
	})
	closeButton := widget.NewButton("Close", overlay.Hide)

	overlay.circleArea = container.New(overlay.layout, circle, phaseLabel)
	controls := container.NewGridWithColumns(3, overlay.startButton, resetButton, closeButton)
	content := container.NewBorder(nil, container.NewVBox(cycleLabel, timerLabel, controls), nil, nil, overlay.circleArea)
	window.SetContent(content)
	window.Resize(fyne.NewSize(360, 480))
	window.SetCloseIntercept(overlay.Hide)

	overlay.engine = animation.New(animation.DefaultConfig(), overlay.setScale)
	return overlay
}

// Show displays the window with the given session state.
func (overlay *Window) Show(session breathing.Session) {
	overlay.Render(session)
	overlay.window.Show()
	overlay.window.RequestFocus()
}

// Hide closes the window and stops the animation.
func (overlay *Window) Hide() {
	overlay.stopEngine()
	overlay.window.Hide()
	if overlay.callbacks.OnClose != nil {
		overlay.callbacks.OnClose()
	}
}

// Follow renders every event from the controller until ctx is done.
func (overlay *Window) Follow(ctx context.Context, events <-chan breathing.Event, pattern func(breathing.Phase) time.Duration) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				fyne.Do(func() {
					overlay.apply(event, pattern)
				})
			}
		}
	}()
}

// Render updates labels for session without touching the animation.
func (overlay *Window) Render(session breathing.Session) {
	overlay.phaseLabel.Text = phaseText(session)
	overlay.phaseLabel.Refresh()
	overlay.cycleLabel.SetText(cycleText(session))
	overlay.timerLabel.Text = formatDuration(session.Remaining)
	overlay.timerLabel.Refresh()
	if session.Active {
		overlay.startButton.SetText("Pause")
	} else {
		overlay.startButton.SetText("Start")
	}
	overlay.lastActive = session.Active
}

func (overlay *Window) apply(event breathing.Event, pattern func(breathing.Phase) time.Duration) {
	session := event.Session
	overlay.Render(session)

	switch event.Type {
	case breathing.EventStarted, breathing.EventPhase:
		overlay.animate(session.Phase, pattern(session.Phase))
	case breathing.EventPaused:
		overlay.stopEngine()
	case breathing.EventReset, breathing.EventCompleted:
		overlay.stopEngine()
		overlay.engine.Rest()
	}
}

func (overlay *Window) animate(phase breathing.Phase, duration time.Duration) {
	overlay.stopEngine()
	ctx, cancel := context.WithCancel(context.Background())
	overlay.cancelCtx = cancel
	overlay.engine.AnimatePhase(ctx, phase, duration)
}

func (overlay *Window) stopEngine() {
	if overlay.cancelCtx != nil {
		overlay.cancelCtx()
		overlay.cancelCtx = nil
	}
	overlay.engine.Stop()
}

func (overlay *Window) setScale(scale float32) {
	fyne.Do(func() {
		overlay.layout.scale = scale
		overlay.circleArea.Refresh()
	})
}

func (overlay *Window) handleStartPause() {
	if overlay.lastActive {
		if overlay.callbacks.OnPause != nil {
			overlay.callbacks.OnPause()
		}
		return
	}
	if overlay.callbacks.OnStart != nil {
		overlay.callbacks.OnStart()
	}
}

func phaseText(session breathing.Session) string {
	if session.Completed {
		return "Well done"
	}
	if !session.Active && session.CycleIndex == 0 {
		return "Ready when you are"
	}
	return session.Phase.Instruction()
}

func cycleText(session breathing.Session) string {
	if session.TotalCycles == 0 {
		return ""
	}
	current := session.CycleIndex + 1
	if current > session.TotalCycles {
		current = session.TotalCycles
	}
	return fmt.Sprintf("Cycle %d of %d", current, session.TotalCycles)
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	minutes := seconds / 60
	seconds = seconds % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// circleLayout centres the circle at scale of the shorter side and keeps
// the instruction text in the middle of it.
type circleLayout struct {
	scale float32
}

func (layout *circleLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}
	circle := objects[0]
	label := objects[1]

	side := size.Width
	if size.Height < side {
		side = size.Height
	}
	diameter := side * 0.9 * layout.scale
	circle.Resize(fyne.NewSize(diameter, diameter))
	circle.Move(fyne.NewPos((size.Width-diameter)/2, (size.Height-diameter)/2))

	labelSize := label.MinSize()
	label.Resize(fyne.NewSize(size.Width, labelSize.Height))
	label.Move(fyne.NewPos(0, (size.Height-labelSize.Height)/2))
}

func (layout *circleLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}
	labelMin := objects[1].MinSize()
	side := labelMin.Width
	if side < 200 {
		side = 200
	}
	return fyne.NewSize(side, side)
}
