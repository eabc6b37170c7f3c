package domain

// TimerState is the countdown state of one timed step.
//
// IsCompleted is true exactly when RemainingSeconds is 0, and a completed
// timer is never running.
type TimerState struct {
	StepID           string
	TotalSeconds     int
	RemainingSeconds int
	IsRunning        bool
	IsCompleted      bool
}

// Status returns a human-readable timer status.
func (t TimerState) Status() string {
	switch {
	case t.IsCompleted:
		return "done"
	case t.IsRunning:
		return "running"
	case t.RemainingSeconds < t.TotalSeconds:
		return "paused"
	default:
		return "ready"
	}
}

// Mode is the cooking-mode state of a session.
type Mode int

const (
	// ModeIdle means cooking mode is off.
	ModeIdle Mode = iota
	// ModeActive means step navigation and stay-awake are on.
	ModeActive
)

// String returns a human-readable mode.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeActive:
		return "active"
	default:
		return "unknown"
	}
}

// StepView is one step as the UI sees it.
type StepView struct {
	Step      InstructionStep
	Timer     *TimerState // nil for untimed steps
	Completed bool
	Current   bool
}

// SessionView is a read-only snapshot of a cooking session.
type SessionView struct {
	ID               string
	Mode             Mode
	CurrentStepIndex int // meaningful only when Mode is ModeActive
	Steps            []StepView
	CompletedCount   int
	WakeLockHeld     bool
}

// Enabled reports whether cooking mode is on.
func (v SessionView) Enabled() bool {
	return v.Mode == ModeActive
}

// CompletionRatio is the fraction of steps marked complete, in [0, 1].
func (v SessionView) CompletionRatio() float64 {
	if len(v.Steps) == 0 {
		return 0
	}
	return float64(v.CompletedCount) / float64(len(v.Steps))
}

// CurrentStep returns the step under the cursor, or false when idle.
func (v SessionView) CurrentStep() (StepView, bool) {
	if v.Mode != ModeActive || v.CurrentStepIndex < 0 || v.CurrentStepIndex >= len(v.Steps) {
		return StepView{}, false
	}
	return v.Steps[v.CurrentStepIndex], true
}
