// Package main is the entry point for safecalc.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"safecalc/internal/platform"
	"safecalc/internal/storage"
)

const appName = "safecalc"

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "A calculator",
	Long: `A calculator with a private side: a covert trigger opens an emergency
screen and a guided breathing exercise.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runDesktop,
}

var breatheCmd = &cobra.Command{
	Use:   "breathe",
	Short: "Run a guided breathing session in the terminal",
	RunE:  runBreathe,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print the effective settings and where they are stored",
	RunE:  runSettings,
}

var autostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Manage launching at login",
}

var autostartEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Launch at login",
	RunE: func(cmd *cobra.Command, args []string) error {
		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable: %w", err)
		}
		if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
			execPath = resolved
		}
		if err := platform.NewAutostart(appName, execPath).Enable(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "autostart enabled")
		return nil
	},
}

var autostartDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop launching at login",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := platform.NewAutostart(appName, "").Disable(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "autostart disabled")
		return nil
	},
}

var autostartStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether launching at login is enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := platform.NewAutostart(appName, "").Enabled()
		if err != nil {
			return err
		}
		state := "disabled"
		if enabled {
			state = "enabled"
		}
		fmt.Fprintln(cmd.OutOrStdout(), "autostart "+state)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit: %s, built: %s)\n", appName, Version, Commit, BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose development logging")

	breatheCmd.Flags().IntVar(&breatheMinutes, "minutes", 0, "Session length in minutes (default from settings)")
	breatheCmd.Flags().StringVar(&breathePattern, "pattern", "", "Pattern as in-hold-out-rest seconds, e.g. 4-7-8-0")
	breatheCmd.Flags().BoolVar(&breatheSound, "sound", false, "Ring the terminal bell on phase changes")
	settingsCmd.Flags().BoolVar(&settingsPathOnly, "path", false, "Print only the settings file path")

	autostartCmd.AddCommand(autostartEnableCmd)
	autostartCmd.AddCommand(autostartDisableCmd)
	autostartCmd.AddCommand(autostartStatusCmd)
	rootCmd.AddCommand(breatheCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(autostartCmd)
	rootCmd.AddCommand(versionCmd)
}

var settingsPathOnly bool

func runSettings(cmd *cobra.Command, args []string) error {
	path, err := storage.ResolvePath(appName)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if settingsPathOnly {
		fmt.Fprintln(out, path)
		return nil
	}

	prefs, err := storage.LoadFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "file:               %s\n", path)
	fmt.Fprintf(out, "disguise:           %s\n", prefs.DisguiseMode)
	fmt.Fprintf(out, "trigger:            %s\n", prefs.TriggerPattern)
	fmt.Fprintf(out, "auto-lock:          %t after %s\n", prefs.AutoLock, prefs.AutoLockAfter)
	fmt.Fprintf(out, "breathing:          %s, %s\n", prefs.BreathingDuration, formatPattern(prefs.BreathingPattern))
	fmt.Fprintf(out, "sound:              %t\n", prefs.SoundEnabled)
	fmt.Fprintf(out, "dark mode:          %t\n", prefs.DarkMode)
	return nil
}

func newLogger() *zap.Logger {
	if verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			return logger
		}
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)

	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
