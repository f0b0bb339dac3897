//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func entryPath(name string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(configDir, "autostart", name+".desktop"), nil
}

// entryContent only ever advertises the calculator name and icon.
func entryContent(_ string, execPath string) string {
	lines := []string{
		"[Desktop Entry]",
		"Type=Application",
		"Name=" + DisplayName,
		"Icon=accessories-calculator",
		"Exec=" + desktopExec(execPath),
		"X-GNOME-Autostart-enabled=true",
		"Terminal=false",
	}
	return strings.Join(lines, "\n") + "\n"
}

func desktopExec(execPath string) string {
	if strings.ContainsAny(execPath, " \t") && !strings.HasPrefix(execPath, `"`) {
		return `"` + execPath + `"`
	}
	return execPath
}
