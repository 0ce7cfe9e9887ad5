package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"focustimer/internal/core/model"
	"focustimer/internal/core/timekeeper"
	"focustimer/internal/platform"
)

// DefaultIdleCheckInterval is how often the idle provider is polled.
const DefaultIdleCheckInterval = 5 * time.Second

// IdlePauser pauses a running work phase once the user has been idle
// for the configured threshold.
type IdlePauser struct {
	keeper   *timekeeper.TimeKeeper
	provider platform.IdleProvider
	logger   zerolog.Logger

	mu        sync.Mutex
	threshold time.Duration
	disabled  bool
}

// NewIdlePauser returns a pauser. A zero threshold disables it.
func NewIdlePauser(keeper *timekeeper.TimeKeeper, provider platform.IdleProvider, threshold time.Duration, logger zerolog.Logger) *IdlePauser {
	return &IdlePauser{
		keeper:    keeper,
		provider:  provider,
		threshold: threshold,
		logger:    logger,
	}
}

// SetThreshold changes the idle threshold. Zero disables idle pausing.
func (pauser *IdlePauser) SetThreshold(threshold time.Duration) {
	pauser.mu.Lock()
	defer pauser.mu.Unlock()
	pauser.threshold = threshold
}

// Check polls the provider once and pauses the keeper when needed.
// It reports whether it paused.
func (pauser *IdlePauser) Check() bool {
	pauser.mu.Lock()
	threshold := pauser.threshold
	disabled := pauser.disabled
	pauser.mu.Unlock()
	if disabled || threshold <= 0 || pauser.provider == nil {
		return false
	}

	state := pauser.keeper.State()
	if !state.IsRunning || state.Phase != model.PhaseWork {
		return false
	}

	idle, err := pauser.provider.IdleDuration()
	if err != nil {
		if errors.Is(err, platform.ErrIdleUnsupported) {
			pauser.mu.Lock()
			pauser.disabled = true
			pauser.mu.Unlock()
			pauser.logger.Warn().Err(err).Msg("idle auto-pause disabled")
			return false
		}
		pauser.logger.Debug().Err(err).Msg("idle check failed")
		return false
	}
	if idle < threshold {
		return false
	}

	pauser.logger.Info().Dur("idle", idle).Msg("pausing work after inactivity")
	pauser.keeper.Pause()
	return true
}

// Run calls Check every interval until ctx is done.
func (pauser *IdlePauser) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultIdleCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pauser.Check()
		}
	}
}
