package platform

import (
	"fmt"
	"os"
	"strings"
)

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	GetDataDir() (string, error)
	EnableAutostart(entry AutostartEntry) error
	DisableAutostart(appName string) error
	AutostartEnabled(appName string) (bool, error)
}

// AutostartEntry describes the command launched at login.
type AutostartEntry struct {
	AppName  string
	ExecPath string
	Args     []string
}

func (entry AutostartEntry) validate(action string) error {
	if strings.TrimSpace(entry.AppName) == "" {
		return fmt.Errorf("%s autostart: app name is empty", action)
	}
	if entry.ExecPath == "" {
		return fmt.Errorf("%s autostart: exec path is empty", action)
	}
	return nil
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// GetDataDir returns the directory for application data such as the
// history database and log files.
func (service *platformService) GetDataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return dataHome, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return service.GetConfigDir()
	}
	return dataDir(homeDir), nil
}

func slugName(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "focustimer"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}
