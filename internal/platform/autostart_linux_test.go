package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryContent_UsesDisplayNameAndQuotes(t *testing.T) {
	entry := entryContent("safecalc", "/opt/my apps/safecalc")

	assert.Contains(t, entry, "Name=Calculator\n")
	assert.Contains(t, entry, `Exec="/opt/my apps/safecalc"`)
	assert.NotContains(t, entry, "Name=safecalc")
}

func TestAutostart_EnableDisable(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	autostart := NewAutostart("SafeCalc", "/usr/bin/safecalc")
	enabled, err := autostart.Enabled()
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, autostart.Enable())

	entryPath := filepath.Join(configHome, "autostart", "safecalc.desktop")
	content, err := os.ReadFile(entryPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Exec=/usr/bin/safecalc\n")
	enabled, err = autostart.Enabled()
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, NewAutostart("SafeCalc", "").Disable())
	assert.NoFileExists(t, entryPath)
	assert.NoError(t, autostart.Disable())
}

func TestAutostart_EnableNeedsExecPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	err := NewAutostart("safecalc", "  ").Enable()

	assert.ErrorIs(t, err, errNoExecPath)
}
