package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"focustimer/internal/core/model"
)

func TestManagerLabelsWithoutApp(t *testing.T) {
	var toggled, skipped int
	manager := New(nil, Callbacks{
		OnToggle: func() { toggled++ },
		OnSkip:   func() { skipped++ },
	})

	manager.SetStatus("Work 24:59")
	manager.SetState(model.PhaseWork, true)
	assert.Equal(t, "Work 24:59", manager.statusItem.Label)
	assert.Equal(t, "Pause", manager.toggleItem.Label)

	manager.SetState(model.PhaseShortBreak, false)
	assert.Equal(t, "Start", manager.toggleItem.Label)

	manager.toggleItem.Action()
	manager.skipItem.Action()
	manager.resetItem.Action()
	assert.Equal(t, 1, toggled)
	assert.Equal(t, 1, skipped)
}
