package platform

import (
	"errors"
	"strings"
)

// DisplayName is the name the app shows to the desktop environment.
const DisplayName = "Calculator"

const defaultAppName = "safecalc"

// Autostart registers the app to launch at login under the calculator name.
type Autostart struct {
	name     string
	execPath string
}

// NewAutostart returns an Autostart for appName. execPath may be empty when
// the caller only disables or queries the registration.
func NewAutostart(appName, execPath string) *Autostart {
	return &Autostart{
		name:     normalizedAppName(appName),
		execPath: strings.TrimSpace(execPath),
	}
}

var errNoExecPath = errors.New("exec path is empty")

func normalizedAppName(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = defaultAppName
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}
