package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
)

// Option configures the scheduler.
type Option func(*Scheduler)

// WithTickInterval sets the length of one tick. Every tick takes one
// second off each running timer, whatever the interval.
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		s.tickInterval = d
	}
}

// WithCompletionHook registers a callback run after a timer completes.
// Hooks run on the driver goroutine, outside any scheduler lock.
func WithCompletionHook(fn func(domain.TimerState)) Option {
	return func(s *Scheduler) {
		s.hooks = append(s.hooks, fn)
	}
}

// Scheduler drives a Registry with one shared ticker. The driver goroutine
// exists only while some timer is running: it is launched when a timer
// starts and exits on the first tick that finds nothing left to count.
type Scheduler struct {
	reg          *Registry
	notifier     domain.Notifier
	log          *logger.Logger
	tickInterval time.Duration
	hooks        []func(domain.TimerState)

	mu      sync.Mutex
	labels  map[string]string
	running bool
	gen     uint64 // bumped whenever a driver is started or stopped
	stop    chan struct{}
}

// New creates a scheduler over reg. notifier may be nil.
func New(reg *Registry, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		reg:          reg,
		notifier:     notifier,
		log:          log,
		tickInterval: 1 * time.Second,
		labels:       make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the underlying registry.
func (s *Scheduler) Registry() *Registry { return s.reg }

// Create registers a stopped timer. label is used in completion messages;
// empty means "Timer".
func (s *Scheduler) Create(stepID string, totalSeconds int, label string) bool {
	if !s.reg.Create(stepID, totalSeconds) {
		return false
	}
	s.mu.Lock()
	s.labels[stepID] = label
	s.mu.Unlock()
	return true
}

// Start starts a timer and makes sure the driver is ticking.
func (s *Scheduler) Start(stepID string) {
	if !s.reg.Start(stepID) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.gen++
	s.stop = make(chan struct{})
	go s.loop(s.gen, s.stop)

	s.log.Debug("driver started (tick=%s)", s.tickInterval)
}

// Pause pauses a timer, stopping the driver if it was the last one running.
func (s *Scheduler) Pause(stepID string) {
	if s.reg.Pause(stepID) {
		s.stopIfIdle()
	}
}

// Reset resets a timer, stopping the driver if it was the last one running.
func (s *Scheduler) Reset(stepID string) {
	if s.reg.Reset(stepID) {
		s.stopIfIdle()
	}
}

// Toggle starts a stopped timer or pauses a running one.
func (s *Scheduler) Toggle(stepID string) {
	ts, ok := s.reg.Get(stepID)
	if !ok {
		return
	}
	if ts.IsRunning {
		s.Pause(stepID)
		return
	}
	s.Start(stepID)
}

// Running reports whether the driver goroutine is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop halts the driver. Once Stop returns no further tick is applied,
// even one the old driver had already received from its ticker.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Clear stops the driver and discards every timer.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	s.stopLocked()
	s.labels = make(map[string]string)
	s.reg.Clear()
	s.mu.Unlock()
}

func (s *Scheduler) stopIfIdle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.reg.AnyRunning() {
		s.stopLocked()
	}
}

func (s *Scheduler) stopLocked() {
	if !s.running {
		return
	}
	close(s.stop)
	s.stop = nil
	s.running = false
	s.gen++
	s.log.Debug("driver stopped")
}

// loop is the driver. gen identifies it so a superseded driver can never
// apply a tick.
func (s *Scheduler) loop(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !s.tick(gen) {
				return
			}
		}
	}
}

// tick applies one registry tick and reports whether the driver should
// keep going.
func (s *Scheduler) tick(gen uint64) bool {
	s.mu.Lock()
	if gen != s.gen || !s.running {
		s.mu.Unlock()
		return false
	}

	completed := s.reg.Tick()
	idle := !s.reg.AnyRunning()
	if idle {
		// The driver exits on its own; nothing to close.
		s.stop = nil
		s.running = false
		s.gen++
		s.log.Debug("driver idle, stopping")
	}
	labels := make([]string, len(completed))
	for i, ts := range completed {
		labels[i] = s.labels[ts.StepID]
	}
	s.mu.Unlock()

	for i, ts := range completed {
		s.complete(ts, labels[i])
	}
	return !idle
}

// complete announces a finished timer and runs the hooks.
func (s *Scheduler) complete(ts domain.TimerState, label string) {
	s.log.Info("timer %s finished", ts.StepID)

	if s.notifier != nil {
		if label == "" {
			label = "Timer"
		}
		msg := fmt.Sprintf("[Timer] %s is up.", label)
		if err := s.notifier.NotifyUrgent(context.Background(), msg); err != nil {
			s.log.Error("notifying timer %s: %v", ts.StepID, err)
		}
	}

	for _, hook := range s.hooks {
		hook(ts)
	}
}
