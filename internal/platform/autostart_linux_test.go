//go:build linux

package platform

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDesktopEntryQuotesPathsWithSpaces(t *testing.T) {
	entry := buildDesktopEntry(AutostartEntry{
		AppName:  "Focus Timer",
		ExecPath: "/opt/focus timer/focustimer",
		Args:     []string{"desktop"},
	})

	assert.Contains(t, entry, "Name=Focus Timer\n")
	assert.Contains(t, entry, `Exec="/opt/focus timer/focustimer" desktop`)
	assert.Contains(t, entry, "Terminal=false")
}

func TestDesktopFileName(t *testing.T) {
	assert.Equal(t, "focus-timer.desktop", desktopFileName(" Focus Timer "))
	assert.Equal(t, "focustimer.desktop", desktopFileName(""))
}

func TestAutostartRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	service := NewService()

	enabled, err := service.AutostartEnabled("focustimer")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, service.EnableAutostart(AutostartEntry{AppName: "focustimer", ExecPath: "/usr/bin/focustimer", Args: []string{"desktop"}}))
	enabled, err = service.AutostartEnabled("focustimer")
	require.NoError(t, err)
	assert.True(t, enabled)

	configDir, err := service.GetConfigDir()
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(configDir, "autostart", "focustimer.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Exec=/usr/bin/focustimer desktop")

	require.NoError(t, service.DisableAutostart("focustimer"))
	require.NoError(t, service.DisableAutostart("focustimer"))
	enabled, err = service.AutostartEnabled("focustimer")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestEnableAutostartValidatesEntry(t *testing.T) {
	service := NewService()

	assert.Error(t, service.EnableAutostart(AutostartEntry{ExecPath: "/bin/true"}))
	assert.Error(t, service.EnableAutostart(AutostartEntry{AppName: "focustimer"}))
}

func TestGetDataDirHonoursXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := NewService().GetDataDir()

	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestParseMutterIdletime(t *testing.T) {
	idle, err := parseMutterIdletime("(uint64 4200,)\n")
	require.NoError(t, err)
	assert.Equal(t, 4200*time.Millisecond, idle)

	_, err = parseMutterIdletime("garbage")
	assert.Error(t, err)
}
