package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"safecalc/internal/core/breathing"
	"safecalc/internal/core/clock"
	"safecalc/internal/core/model"
	"safecalc/internal/sound"
	"safecalc/internal/storage"
)

var (
	breatheMinutes int
	breathePattern string
	breatheSound   bool
)

func runBreathe(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer func() {
		_ = logger.Sync()
	}()

	prefs, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("using default settings", zap.Error(err))
	}
	config := prefs.BreathingConfig()
	if breatheMinutes > 0 {
		config.TotalDuration = time.Duration(breatheMinutes) * time.Minute
	}
	if breathePattern != "" {
		pattern, err := parsePattern(breathePattern)
		if err != nil {
			return err
		}
		config.Pattern = pattern
	}
	if cmd.Flags().Changed("sound") {
		config.SoundEnabled = breatheSound
	}

	out := cmd.OutOrStdout()
	controller := breathing.New(config, breathing.Options{
		Clock:    clock.Real(),
		Notifier: sound.Multi{sound.NewBell(out), sound.NewLogger(logger.Named("sound"))},
		Logger:   logger.Named("breathing"),
	})
	defer controller.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := controller.Subscribe(64)
	controller.Start()
	styles := newSessionStyles(out)
	completed, err := printSession(ctx, events, out, styles)
	if !completed {
		fmt.Fprintln(out, "\n"+styles.dim("session stopped"))
	}
	return err
}

// printSession writes one line per phase change plus a final summary and
// reports whether the session completed.
func printSession(ctx context.Context, events <-chan breathing.Event, out io.Writer, styles sessionStyles) (bool, error) {
	for {
		select {
		case <-ctx.Done():
			return false, nil
		case event, ok := <-events:
			if !ok {
				return false, nil
			}
			line, done := describeEvent(event, styles)
			if line != "" {
				if _, err := fmt.Fprintln(out, line); err != nil {
					return false, fmt.Errorf("write session output: %w", err)
				}
			}
			if done {
				return true, nil
			}
		}
	}
}

func describeEvent(event breathing.Event, styles sessionStyles) (string, bool) {
	session := event.Session
	switch event.Type {
	case breathing.EventStarted:
		header := styles.headline(fmt.Sprintf("%d cycles, %s", session.TotalCycles, formatClock(session.Remaining)))
		return header + "\n" + phaseLine(session, styles), false
	case breathing.EventPhase:
		return phaseLine(session, styles), false
	case breathing.EventCompleted:
		return styles.headline(fmt.Sprintf("done: %d of %d cycles", session.CycleIndex, session.TotalCycles)), true
	}
	return "", false
}

func phaseLine(session breathing.Session, styles sessionStyles) string {
	prefix := styles.dim(fmt.Sprintf("[%s] cycle %d/%d", formatClock(session.Remaining), displayCycle(session), session.TotalCycles))
	return prefix + "  " + styles.phase(session.Phase, session.Phase.Instruction())
}

func displayCycle(session breathing.Session) int {
	current := session.CycleIndex + 1
	if current > session.TotalCycles {
		current = session.TotalCycles
	}
	return current
}

func formatClock(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// parsePattern reads "in-hold-out-rest" whole seconds.
func parsePattern(value string) (model.BreathingPattern, error) {
	parts := strings.Split(value, "-")
	if len(parts) != 4 {
		return model.BreathingPattern{}, fmt.Errorf("parse pattern %q: want in-hold-out-rest", value)
	}
	durations := make([]time.Duration, len(parts))
	for index, part := range parts {
		parsed, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || parsed < 0 {
			return model.BreathingPattern{}, fmt.Errorf("parse pattern %q: invalid seconds %q", value, part)
		}
		durations[index] = time.Duration(parsed) * time.Second
	}
	pattern := model.BreathingPattern{In: durations[0], Hold: durations[1], Out: durations[2], Rest: durations[3]}
	if pattern.CycleLength() <= 0 {
		return model.BreathingPattern{}, fmt.Errorf("parse pattern %q: cycle has no length", value)
	}
	return pattern, nil
}

func formatPattern(pattern model.BreathingPattern) string {
	return fmt.Sprintf("%d-%d-%d-%d",
		int(pattern.In.Seconds()),
		int(pattern.Hold.Seconds()),
		int(pattern.Out.Seconds()),
		int(pattern.Rest.Seconds()))
}
