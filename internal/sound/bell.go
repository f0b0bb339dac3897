// Package sound plays breathing cues.
package sound

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"safecalc/internal/core/breathing"
)

// bellCounts maps cues to terminal bell repetitions.
var bellCounts = map[breathing.Cue]int{
	breathing.CueIn:       1,
	breathing.CueHold:     0,
	breathing.CueOut:      2,
	breathing.CueRest:     0,
	breathing.CueComplete: 3,
}

// Bell rings the terminal bell on a writer, a few times per cue.
type Bell struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewBell returns a Bell writing to writer.
func NewBell(writer io.Writer) *Bell {
	return &Bell{writer: writer}
}

// Notify rings the bell for cue.
func (bell *Bell) Notify(cue breathing.Cue) error {
	count, ok := bellCounts[cue]
	if !ok {
		return fmt.Errorf("notify cue %q: unknown cue", cue)
	}
	if count == 0 {
		return nil
	}

	bell.mu.Lock()
	defer bell.mu.Unlock()
	buffer := make([]byte, count)
	for i := range buffer {
		buffer[i] = '\a'
	}
	if _, err := bell.writer.Write(buffer); err != nil {
		return fmt.Errorf("notify cue %q: %w", cue, err)
	}
	return nil
}

// Logger records cues instead of playing them.
type Logger struct {
	logger *zap.Logger
}

// NewLogger returns a notifier that logs each cue at debug level.
func NewLogger(logger *zap.Logger) *Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Logger{logger: logger}
}

// Notify logs cue.
func (notifier *Logger) Notify(cue breathing.Cue) error {
	notifier.logger.Debug("breathing cue", zap.String("cue", string(cue)))
	return nil
}

// Multi fans a cue out to several notifiers and reports the first error.
type Multi []breathing.Notifier

// Notify delivers cue to every notifier.
func (multi Multi) Notify(cue breathing.Cue) error {
	var firstErr error
	for _, notifier := range multi {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(cue); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
