package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// idleProvider prefers xprintidle and falls back to the GNOME Mutter idle
// monitor, which also answers on Wayland sessions.
type idleProvider struct {
	xprintidlePath string
	gdbusPath      string
}

type unsupportedIdleProvider struct{}

func newIdleProvider() IdleProvider {
	xprintidle, _ := exec.LookPath("xprintidle")
	gdbus, _ := exec.LookPath("gdbus")
	if xprintidle == "" && gdbus == "" {
		return unsupportedIdleProvider{}
	}
	return &idleProvider{xprintidlePath: xprintidle, gdbusPath: gdbus}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	if provider.xprintidlePath != "" {
		output, err := exec.Command(provider.xprintidlePath).Output()
		if err == nil {
			return parseIdleMillis(strings.TrimSpace(string(output)))
		}
		if provider.gdbusPath == "" {
			return 0, fmt.Errorf("xprintidle: %w", err)
		}
	}

	output, err := exec.Command(
		provider.gdbusPath,
		"call", "--session",
		"--dest", "org.gnome.Mutter.IdleMonitor",
		"--object-path", "/org/gnome/Mutter/IdleMonitor/Core",
		"--method", "org.gnome.Mutter.IdleMonitor.GetIdletime",
	).Output()
	if err != nil {
		return 0, fmt.Errorf("%w: mutter idle monitor: %v", ErrIdleUnsupported, err)
	}
	return parseMutterIdletime(string(output))
}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, ErrIdleUnsupported
}

func parseIdleMillis(value string) (time.Duration, error) {
	idleMillis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

// parseMutterIdletime reads gdbus output of the form "(uint64 1234,)".
func parseMutterIdletime(output string) (time.Duration, error) {
	value := strings.TrimSpace(output)
	value = strings.TrimPrefix(value, "(")
	value = strings.TrimSuffix(value, ")")
	value = strings.TrimSuffix(value, ",")
	value = strings.TrimPrefix(value, "uint64 ")
	return parseIdleMillis(strings.TrimSpace(value))
}
