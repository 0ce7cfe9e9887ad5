package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning is returned when another process holds the lock for the
// same app name.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	lockPortMin = 20000
	lockPortMax = 39999
)

// InstanceGuard is a loopback listener that marks this process as the
// running desktop instance of an app.
type InstanceGuard struct {
	appName  string
	listener net.Listener
}

// AcquireSingleInstance claims the lock port derived from appName. Names that
// differ only in case or spacing share one lock.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	slug := slugName(appName)
	address := lockAddress(slug)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%s: %w on %s: %v", slug, ErrAlreadyRunning, address, err)
	}
	return &InstanceGuard{appName: slug, listener: listener}, nil
}

// AppName returns the normalized name the lock was taken for.
func (guard *InstanceGuard) AppName() string {
	if guard == nil {
		return ""
	}
	return guard.appName
}

// Address returns the loopback address holding the lock, or "" once released.
func (guard *InstanceGuard) Address() string {
	if guard == nil || guard.listener == nil {
		return ""
	}
	return guard.listener.Addr().String()
}

// Release frees the lock. Calling it again is a no-op.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	listener := guard.listener
	guard.listener = nil
	return listener.Close()
}

func lockAddress(slug string) string {
	return net.JoinHostPort("127.0.0.1", fmt.Sprint(lockPort(slug)))
}

func lockPort(slug string) int {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(slug))
	span := uint32(lockPortMax - lockPortMin + 1)
	return lockPortMin + int(hash.Sum32()%span)
}
