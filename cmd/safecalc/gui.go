package main

import (
	"context"
	"errors"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"safecalc/internal/app"
	"safecalc/internal/core/breathing"
	"safecalc/internal/core/clock"
	"safecalc/internal/platform"
	"safecalc/internal/settings"
	"safecalc/internal/sound"
	"safecalc/internal/storage"
	"safecalc/internal/ui/disguise"
	"safecalc/internal/ui/emergency"
	"safecalc/internal/ui/overlay"
	"safecalc/internal/ui/preferences"
	"safecalc/internal/ui/tray"
	"safecalc/resources"
)

func runDesktop(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer func() {
		_ = logger.Sync()
	}()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if activateErr := platform.ActivateRunning(appName); activateErr != nil {
				logger.Warn("activate running instance", zap.Error(activateErr))
			}
			return nil
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	prefs, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("using default settings", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	guardian := app.New(prefs, app.Options{
		Clock:     clock.Real(),
		Logger:    logger,
		Notifier:  desktopNotifier(logger),
		IdleProbe: platform.NewIdleProvider(),
	})
	defer guardian.Close()

	fyneApp := fyneapp.NewWithID("com.calctools.calculator")
	fyneApp.SetIcon(resources.MustIcon(resources.IconActive))
	applyTheme(fyneApp, prefs.DarkMode)

	shell := newShell(fyneApp, guardian, logger)
	shell.followModes(ctx)
	shell.breathingWindow.Follow(ctx, guardian.Breathing().Subscribe(32), func(phase breathing.Phase) time.Duration {
		return phase.Duration(guardian.Breathing().Config().Pattern)
	})

	go func() {
		if err := guard.Serve(ctx, func() {
			fyne.Do(shell.showCurrent)
		}); err != nil {
			logger.Warn("single instance listener stopped", zap.Error(err))
		}
	}()

	if path, err := storage.ResolvePath(appName); err != nil {
		logger.Warn("settings watcher disabled", zap.Error(err))
	} else if watcher, err := storage.NewWatcher(path, func(updated settings.Settings) {
		fyne.Do(func() {
			shell.applySettings(updated)
		})
	}, logger.Named("settings")); err != nil {
		logger.Warn("settings watcher disabled", zap.Error(err))
	} else {
		go func() {
			_ = watcher.Run(ctx)
		}()
	}

	shell.showCurrent()
	fyneApp.Run()
	return nil
}

// shell maps guardian modes onto windows.
type shell struct {
	app             fyne.App
	guardian        *app.Guardian
	disguiseWindow  *disguise.Window
	emergencyWindow *emergency.Window
	breathingWindow *overlay.Window
	prefsWindow     *preferences.Window
	desktopApp      desktop.App
	trayManager     *tray.Manager
}

func newShell(fyneApp fyne.App, guardian *app.Guardian, logger *zap.Logger) *shell {
	s := &shell{app: fyneApp, guardian: guardian}
	prefs := guardian.Settings()

	s.disguiseWindow = disguise.New(fyneApp, prefs.DisguiseMode, guardian.Detector(), time.Now, guardian.ToggleDisguise)
	s.disguiseWindow.Window().SetMaster()

	s.emergencyWindow = emergency.New(fyneApp, time.Now, emergency.Callbacks{
		OnBreathe: func() {
			guardian.StartBreathing()
			s.breathingWindow.Show(guardian.Breathing().Snapshot())
		},
		OnSafe: guardian.ResolveEmergency,
	})
	s.emergencyWindow.SetContacts(prefs.Contacts)

	s.breathingWindow = overlay.New(fyneApp, overlay.Callbacks{
		OnStart: guardian.StartBreathing,
		OnPause: guardian.Breathing().Pause,
		OnReset: guardian.Breathing().Reset,
		OnClose: guardian.Breathing().Pause,
	})

	s.prefsWindow = preferences.New(fyneApp, prefs, func(updated settings.Settings) error {
		if err := storage.SaveSettings(appName, updated); err != nil {
			return err
		}
		s.applySettings(updated)
		return nil
	})

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		s.desktopApp = desktopApp
		s.trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow: s.showCurrent,
			OnBreathe: func() {
				s.breathingWindow.Show(guardian.Breathing().Snapshot())
			},
			OnPreferences: s.prefsWindow.Show,
			OnLock: func() {
				guardian.ReturnToDisguise(app.ReasonManual)
			},
			OnQuit: fyneApp.Quit,
		})
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.IconActive))
		s.disguiseWindow.Window().SetCloseIntercept(s.disguiseWindow.Hide)
	} else {
		logger.Info("system tray unsupported on this platform")
	}
	return s
}

func (s *shell) followModes(ctx context.Context) {
	modes := s.guardian.Subscribe(8)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-modes:
				if !ok {
					return
				}
				fyne.Do(func() {
					s.showMode(event.Mode)
				})
			}
		}
	}()
}

func (s *shell) showCurrent() {
	s.showMode(s.guardian.Mode())
}

func (s *shell) showMode(mode app.Mode) {
	switch mode {
	case app.ModeEmergency:
		s.disguiseWindow.Hide()
		s.prefsWindow.Hide()
		s.emergencyWindow.Show()
		s.setTray(false, "ready")
	case app.ModeUnlocked:
		s.disguiseWindow.Hide()
		s.breathingWindow.Show(s.guardian.Breathing().Snapshot())
		s.setTray(true, "open")
	default:
		s.emergencyWindow.Hide()
		s.prefsWindow.Hide()
		s.breathingWindow.Hide()
		s.disguiseWindow.Show()
		s.setTray(false, "ready")
	}
}

func (s *shell) setTray(unlocked bool, status string) {
	if s.trayManager == nil {
		return
	}
	s.trayManager.SetUnlocked(unlocked)
	s.trayManager.SetStatus(status)
	icon := resources.IconActive
	if unlocked {
		icon = resources.IconUnlocked
	}
	s.desktopApp.SetSystemTrayIcon(resources.MustIcon(icon))
}

func (s *shell) applySettings(updated settings.Settings) {
	s.guardian.ApplySettings(updated)
	s.prefsWindow.UpdateSettings(updated)
	s.disguiseWindow.SetMode(updated.DisguiseMode)
	s.emergencyWindow.SetContacts(updated.Contacts)
	applyTheme(s.app, updated.DarkMode)
}

// desktopNotifier records cues only. A desktop launch has no terminal to
// ring, so the bell is reserved for the breathe command.
func desktopNotifier(logger *zap.Logger) breathing.Notifier {
	return sound.NewLogger(logger.Named("sound"))
}

func applyTheme(fyneApp fyne.App, dark bool) {
	variant := theme.VariantLight
	if dark {
		variant = theme.VariantDark
	}
	fyneApp.Settings().SetTheme(&variantTheme{Theme: theme.DefaultTheme(), variant: variant})
}

// variantTheme pins the default theme to one variant.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t *variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}
