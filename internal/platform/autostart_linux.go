//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (service *platformService) EnableAutostart(entry AutostartEntry) error {
	if err := entry.validate("enable"); err != nil {
		return err
	}

	autostartDir, err := service.autostartDir()
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(autostartDir, 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}

	desktopFilePath := filepath.Join(autostartDir, desktopFileName(entry.AppName))
	if err := os.WriteFile(desktopFilePath, []byte(buildDesktopEntry(entry)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}

	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	autostartDir, err := service.autostartDir()
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}

	desktopFilePath := filepath.Join(autostartDir, desktopFileName(appName))
	if err := os.Remove(desktopFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}

	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	autostartDir, err := service.autostartDir()
	if err != nil {
		return false, fmt.Errorf("autostart status: %w", err)
	}
	_, err = os.Stat(filepath.Join(autostartDir, desktopFileName(appName)))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("autostart status: %w", err)
}

func (service *platformService) autostartDir() (string, error) {
	configDir, err := service.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart"), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func dataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share")
}

func desktopFileName(appName string) string {
	return slugName(appName) + ".desktop"
}

func buildDesktopEntry(entry AutostartEntry) string {
	parts := make([]string, 0, len(entry.Args)+1)
	parts = append(parts, quoteExecArg(entry.ExecPath))
	for _, arg := range entry.Args {
		parts = append(parts, quoteExecArg(arg))
	}

	return fmt.Sprintf(
		`[Desktop Entry]
Type=Application
Name=%s
Exec=%s
X-GNOME-Autostart-enabled=true
Terminal=false
`,
		entry.AppName,
		strings.Join(parts, " "),
	)
}

func quoteExecArg(value string) string {
	if strings.ContainsAny(value, " \t") && !strings.HasPrefix(value, `"`) {
		return `"` + value + `"`
	}
	return value
}
