// Package timer owns the per-step countdowns of a cooking session and the
// single shared driver that advances them in lock-step.
package timer

import (
	"sync"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
)

// Registry is a keyed set of countdowns. Every operation, Tick included,
// runs under one lock, so control calls never interleave with a tick.
// Unknown step IDs are ignored everywhere.
type Registry struct {
	mu     sync.Mutex
	timers map[string]*domain.TimerState
	order  []string
	log    *logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		timers: make(map[string]*domain.TimerState),
		log:    log,
	}
}

// Create registers a stopped timer for stepID with the full duration
// remaining. Re-creating an existing ID replaces its state in place.
// Returns false (and does nothing) when totalSeconds is not positive.
func (r *Registry) Create(stepID string, totalSeconds int) bool {
	if totalSeconds <= 0 {
		r.log.Debug("rejecting timer %s with %d seconds", stepID, totalSeconds)
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.timers[stepID]; !ok {
		r.order = append(r.order, stepID)
	}
	r.timers[stepID] = &domain.TimerState{
		StepID:           stepID,
		TotalSeconds:     totalSeconds,
		RemainingSeconds: totalSeconds,
	}
	r.log.Debug("created timer %s (%ds)", stepID, totalSeconds)
	return true
}

// Start marks a timer running. Returns true only on an actual transition:
// completed, already running, and unknown timers are left alone.
func (r *Registry) Start(stepID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts, ok := r.timers[stepID]
	if !ok || ts.IsRunning || ts.IsCompleted {
		return false
	}
	ts.IsRunning = true
	r.log.Debug("started timer %s (%ds left)", stepID, ts.RemainingSeconds)
	return true
}

// Pause stops a running timer, keeping its remaining time.
func (r *Registry) Pause(stepID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts, ok := r.timers[stepID]
	if !ok || !ts.IsRunning {
		return false
	}
	ts.IsRunning = false
	r.log.Debug("paused timer %s (%ds left)", stepID, ts.RemainingSeconds)
	return true
}

// Reset restores the full duration and clears running and completed.
func (r *Registry) Reset(stepID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts, ok := r.timers[stepID]
	if !ok {
		return false
	}
	ts.RemainingSeconds = ts.TotalSeconds
	ts.IsRunning = false
	ts.IsCompleted = false
	r.log.Debug("reset timer %s", stepID)
	return true
}

// Tick advances every running timer by one second. The set of running
// timers is fixed when the tick starts. Timers that reach zero complete
// and stop; they are returned in registration order.
func (r *Registry) Tick() []domain.TimerState {
	r.mu.Lock()
	defer r.mu.Unlock()

	running := make([]*domain.TimerState, 0, len(r.order))
	for _, id := range r.order {
		if ts := r.timers[id]; ts.IsRunning {
			running = append(running, ts)
		}
	}

	var completed []domain.TimerState
	for _, ts := range running {
		ts.RemainingSeconds--
		if ts.RemainingSeconds <= 0 {
			ts.RemainingSeconds = 0
			ts.IsCompleted = true
			ts.IsRunning = false
			completed = append(completed, *ts)
		}
	}
	return completed
}

// Get returns a copy of one timer's state.
func (r *Registry) Get(stepID string) (domain.TimerState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts, ok := r.timers[stepID]
	if !ok {
		return domain.TimerState{}, false
	}
	return *ts, true
}

// Snapshot returns copies of all timers in registration order.
func (r *Registry) Snapshot() []domain.TimerState {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.TimerState, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.timers[id])
	}
	return out
}

// AnyRunning reports whether at least one timer is counting down.
func (r *Registry) AnyRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ts := range r.timers {
		if ts.IsRunning {
			return true
		}
	}
	return false
}

// Len returns the number of registered timers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.timers)
}

// Remove drops one timer.
func (r *Registry) Remove(stepID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.timers[stepID]; !ok {
		return
	}
	delete(r.timers, stepID)
	for i, id := range r.order {
		if id == stepID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Clear drops every timer.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.timers = make(map[string]*domain.TimerState)
	r.order = nil
}
