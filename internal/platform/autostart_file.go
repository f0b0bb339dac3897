//go:build !windows

package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Enable writes the login entry, replacing any earlier one.
func (autostart *Autostart) Enable() error {
	if autostart.execPath == "" {
		return fmt.Errorf("enable autostart: %w", errNoExecPath)
	}
	path, err := entryPath(autostart.name)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create %s: %w", filepath.Dir(path), err)
	}
	content := entryContent(autostart.name, autostart.execPath)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write %s: %w", path, err)
	}
	return nil
}

// Disable removes the login entry. A missing entry is not an error.
func (autostart *Autostart) Disable() error {
	path, err := entryPath(autostart.name)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("disable autostart: remove %s: %w", path, err)
	}
	return nil
}

// Enabled reports whether a login entry exists.
func (autostart *Autostart) Enabled() (bool, error) {
	path, err := entryPath(autostart.name)
	if err != nil {
		return false, fmt.Errorf("query autostart: %w", err)
	}
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("query autostart: %w", err)
	}
}
