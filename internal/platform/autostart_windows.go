//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(entry AutostartEntry) error {
	if err := entry.validate("enable"); err != nil {
		return err
	}

	parts := []string{quoteWindowsPath(entry.ExecPath)}
	for _, arg := range entry.Args {
		if strings.ContainsAny(arg, " \t") {
			arg = quoteWindowsPath(arg)
		}
		parts = append(parts, arg)
	}

	command := exec.Command(
		"reg",
		"add",
		registryRunKey,
		"/v",
		entry.AppName,
		"/t",
		"REG_SZ",
		"/d",
		strings.Join(parts, " "),
		"/f",
	)
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}

	command := exec.Command("reg", "delete", registryRunKey, "/v", appName, "/f")
	output, err := command.CombinedOutput()
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	// reg query exits non-zero when the value does not exist.
	if err := exec.Command("reg", "query", registryRunKey, "/v", appName).Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, fmt.Errorf("autostart status: %w", err)
	}
	return true, nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func dataDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Local")
}

func quoteWindowsPath(execPath string) string {
	trimmed := strings.Trim(execPath, `"`)
	return fmt.Sprintf(`"%s"`, trimmed)
}
