package model

// TimerState is a read-only snapshot of the phase engine.
type TimerState struct {
	Phase            Phase
	RemainingSeconds int
	IsRunning        bool
	CycleCount       int
	TotalCycles      int

	// PhaseDurationSeconds is the duration the current phase was entered or last reset with.
	PhaseDurationSeconds int
	// AwaitingAdvance is set while the countdown sits at zero waiting for the grace window.
	AwaitingAdvance bool
}
