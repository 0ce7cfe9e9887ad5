//go:build !linux && !darwin && !windows

package platform

import (
	"errors"
	"path/filepath"
)

var errAutostartUnsupported = errors.New("autostart unsupported on this platform")

func (service *platformService) EnableAutostart(AutostartEntry) error {
	return errAutostartUnsupported
}

func (service *platformService) DisableAutostart(string) error {
	return errAutostartUnsupported
}

func (service *platformService) AutostartEnabled(string) (bool, error) {
	return false, nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func dataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share")
}
