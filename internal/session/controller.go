// Package session implements the cooking-mode state machine: step
// navigation, step completion, per-step timers and the stay-awake request.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
	"github.com/hammamikhairi/sous/internal/timer"
)

// Controller owns one cooking session for one recipe view. It depends
// only on the timer scheduler and the StayAwake port and is fully
// testable with fakes.
//
// Control operations never fail: unknown step IDs and out-of-state calls
// are ignored.
type Controller struct {
	sched     *timer.Scheduler
	stayAwake domain.StayAwake // nil disables stay-awake entirely
	log       *logger.Logger

	mu        sync.Mutex
	id        string
	steps     []domain.InstructionStep
	positions map[string]int
	mode      domain.Mode
	current   int
	completed map[string]bool
	wake      domain.WakeHandle
	acquiring bool // a stay-awake request is in flight
}

// New creates a controller. stayAwake may be nil.
func New(sched *timer.Scheduler, stayAwake domain.StayAwake, log *logger.Logger) *Controller {
	return &Controller{
		sched:     sched,
		stayAwake: stayAwake,
		log:       log,
		positions: make(map[string]int),
		completed: make(map[string]bool),
	}
}

// Load replaces the step list. Whatever session was running is ended
// first, so no stale timer keeps ticking. One stopped timer is created per
// timed step.
func (c *Controller) Load(steps []domain.InstructionStep) {
	c.EndSession()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.id = uuid.NewString()
	c.steps = append([]domain.InstructionStep(nil), steps...)
	c.positions = make(map[string]int, len(steps))
	for i, step := range c.steps {
		if _, dup := c.positions[step.ID]; dup {
			c.log.Warn("duplicate step id %q, keeping the last one", step.ID)
		}
		c.positions[step.ID] = i
		if step.HasTimer() {
			c.sched.Create(step.ID, step.TimerSeconds, fmt.Sprintf("Step %d", step.StepNumber))
		}
	}

	c.log.Info("loaded session %s (%d steps)", c.id, len(c.steps))
}

// EnableCookingMode moves Idle to Active at the first step and asks the
// host to keep the display awake. The request runs in the background;
// failing to get it is logged and nothing else. If an earlier request is
// still pending it is adopted rather than doubled. Already active, or no
// steps loaded: no-op.
func (c *Controller) EnableCookingMode(ctx context.Context) {
	c.mu.Lock()
	if c.mode == domain.ModeActive {
		c.mu.Unlock()
		return
	}
	if len(c.steps) == 0 {
		c.mu.Unlock()
		c.log.Warn("cooking mode needs at least one step")
		return
	}
	c.mode = domain.ModeActive
	c.current = 0
	request := c.stayAwake != nil && c.wake == nil && !c.acquiring
	if request {
		c.acquiring = true
	}
	c.mu.Unlock()

	c.log.Info("cooking mode on (session %s)", c.id)

	if request {
		go c.acquire(ctx)
	}
}

// DisableCookingMode moves Active to Idle and releases the stay-awake
// request if held.
func (c *Controller) DisableCookingMode() {
	c.mu.Lock()
	if c.mode != domain.ModeActive {
		c.mu.Unlock()
		return
	}
	c.mode = domain.ModeIdle
	c.current = 0
	h := c.dropWakeLocked()
	c.mu.Unlock()

	c.release(h)
	c.log.Info("cooking mode off (session %s)", c.id)
}

// GoToNextStep advances the cursor, stopping at the last step.
func (c *Controller) GoToNextStep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != domain.ModeActive || c.current >= len(c.steps)-1 {
		return
	}
	c.current++
	c.log.Debug("step %d/%d", c.current+1, len(c.steps))
}

// GoToPreviousStep moves the cursor back, stopping at the first step.
func (c *Controller) GoToPreviousStep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != domain.ModeActive || c.current <= 0 {
		return
	}
	c.current--
	c.log.Debug("step %d/%d", c.current+1, len(c.steps))
}

// GoToStep jumps the cursor to index. Out-of-range indexes are ignored.
func (c *Controller) GoToStep(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != domain.ModeActive || index < 0 || index >= len(c.steps) {
		return
	}
	c.current = index
}

// ToggleStepCompletion flips the done flag of a step. Works with cooking
// mode on or off.
func (c *Controller) ToggleStepCompletion(stepID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.positions[stepID]; !ok {
		c.log.Debug("toggle: unknown step %q", stepID)
		return
	}
	if c.completed[stepID] {
		delete(c.completed, stepID)
		return
	}
	c.completed[stepID] = true
}

// StartTimer starts the timer of a step.
func (c *Controller) StartTimer(stepID string) { c.sched.Start(stepID) }

// PauseTimer pauses the timer of a step.
func (c *Controller) PauseTimer(stepID string) { c.sched.Pause(stepID) }

// ResetTimer resets the timer of a step.
func (c *Controller) ResetTimer(stepID string) { c.sched.Reset(stepID) }

// ToggleTimer starts or pauses the timer of a step.
func (c *Controller) ToggleTimer(stepID string) { c.sched.Toggle(stepID) }

// CurrentStepID returns the ID of the step under the cursor, or "" when
// cooking mode is off.
func (c *Controller) CurrentStepID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mode != domain.ModeActive || c.current >= len(c.steps) {
		return ""
	}
	return c.steps[c.current].ID
}

// EndSession stops and discards every timer, releases the stay-awake
// request, and forgets the steps. Safe to call at any time, repeatedly.
func (c *Controller) EndSession() {
	c.sched.Clear()

	c.mu.Lock()
	ended := c.id
	c.id = ""
	c.steps = nil
	c.positions = make(map[string]int)
	c.completed = make(map[string]bool)
	c.mode = domain.ModeIdle
	c.current = 0
	h := c.dropWakeLocked()
	c.mu.Unlock()

	c.release(h)
	if ended != "" {
		c.log.Info("ended session %s", ended)
	}
}

// View returns a snapshot of the session for rendering.
func (c *Controller) View() domain.SessionView {
	timers := make(map[string]domain.TimerState)
	for _, ts := range c.sched.Registry().Snapshot() {
		timers[ts.StepID] = ts
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	view := domain.SessionView{
		ID:               c.id,
		Mode:             c.mode,
		CurrentStepIndex: c.current,
		Steps:            make([]domain.StepView, len(c.steps)),
		WakeLockHeld:     c.wake != nil,
	}
	for i, step := range c.steps {
		sv := domain.StepView{
			Step:      step,
			Completed: c.completed[step.ID],
			Current:   c.mode == domain.ModeActive && i == c.current,
		}
		if ts, ok := timers[step.ID]; ok {
			sv.Timer = &ts
		}
		if sv.Completed {
			view.CompletedCount++
		}
		view.Steps[i] = sv
	}
	return view
}

// acquire requests the stay-awake capability. If cooking mode is off by
// the time the request is granted, the handle is given straight back.
func (c *Controller) acquire(ctx context.Context) {
	h, err := c.stayAwake.Acquire(ctx)

	c.mu.Lock()
	c.acquiring = false
	if err != nil {
		c.mu.Unlock()
		c.log.Warn("stay-awake unavailable, display may sleep: %v", err)
		return
	}
	if c.mode != domain.ModeActive || c.wake != nil {
		c.mu.Unlock()
		c.log.Debug("stay-awake granted after cooking mode ended, releasing")
		c.release(h)
		return
	}
	c.wake = h
	c.mu.Unlock()

	c.log.Debug("stay-awake acquired")
}

func (c *Controller) dropWakeLocked() domain.WakeHandle {
	h := c.wake
	c.wake = nil
	return h
}

func (c *Controller) release(h domain.WakeHandle) {
	if h == nil {
		return
	}
	if err := h.Release(); err != nil {
		c.log.Warn("releasing stay-awake: %v", err)
		return
	}
	c.log.Debug("stay-awake released")
}
