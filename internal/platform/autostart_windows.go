//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

// Enable adds a Run registry value for the current user.
func (autostart *Autostart) Enable() error {
	if autostart.execPath == "" {
		return fmt.Errorf("enable autostart: %w", errNoExecPath)
	}
	quoted := `"` + strings.Trim(autostart.execPath, `"`) + `"`
	if err := runReg("add", "/v", autostart.valueName(), "/t", "REG_SZ", "/d", quoted, "/f"); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

// Disable removes the Run registry value. A missing value is not an error.
func (autostart *Autostart) Disable() error {
	enabled, err := autostart.Enabled()
	if err != nil || !enabled {
		return err
	}
	if err := runReg("delete", "/v", autostart.valueName(), "/f"); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

// Enabled reports whether the Run registry value exists.
func (autostart *Autostart) Enabled() (bool, error) {
	err := exec.Command("reg", "query", registryRunKey, "/v", autostart.valueName()).Run()
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*exec.ExitError); ok {
		return false, nil
	}
	return false, fmt.Errorf("query autostart: %w", err)
}

// valueName keeps the Run entry looking like a stock calculator helper.
func (autostart *Autostart) valueName() string {
	return DisplayName + " (" + autostart.name + ")"
}

func runReg(action string, args ...string) error {
	command := exec.Command("reg", append([]string{action, registryRunKey}, args...)...)
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", action, err, strings.TrimSpace(string(output)))
	}
	return nil
}
