package timer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
)

// ViewSource is anything that can describe the current session.
type ViewSource interface {
	View() domain.SessionView
}

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets how often the watcher checks session state.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// Watcher periodically looks at the whole session and nudges the cook
// about timers that finished on steps still not marked done. Each step is
// nudged once per completion; resetting the timer re-arms it. Runs on a
// slower cycle than the timer driver (default: 1 minute).
type Watcher struct {
	source   ViewSource
	notifier domain.Notifier
	log      *logger.Logger
	interval time.Duration

	mu      sync.Mutex
	nudged  map[string]bool
	session string
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(source ViewSource, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		source:   source,
		notifier: notifier,
		log:      log,
		interval: 1 * time.Minute,
		nudged:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the watcher loop. Blocks until ctx is cancelled.
// Intended to be called as a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("watcher started (interval=%s)", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return
		case <-ticker.C:
			w.Check(ctx)
		}
	}
}

// Check runs one watcher cycle.
func (w *Watcher) Check(ctx context.Context) {
	view := w.source.View()
	msg := w.buildMessage(view)
	if msg == "" {
		return
	}
	if err := w.notifier.Notify(ctx, msg); err != nil {
		w.log.Error("watcher: notify: %v", err)
	}
}

// buildMessage decides what to tell the cook, updating the nudge record.
func (w *Watcher) buildMessage(view domain.SessionView) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	// A new session starts with a clean slate.
	if view.ID != w.session {
		w.session = view.ID
		w.nudged = make(map[string]bool)
	}

	var waiting []string
	for _, sv := range view.Steps {
		if sv.Timer == nil {
			continue
		}
		id := sv.Step.ID
		if !sv.Timer.IsCompleted {
			delete(w.nudged, id)
			continue
		}
		if sv.Completed || w.nudged[id] {
			continue
		}
		w.nudged[id] = true
		waiting = append(waiting, fmt.Sprintf("step %d", sv.Step.StepNumber))
	}

	if len(waiting) == 0 {
		w.log.Debug("watcher: session %s, nothing to report", view.ID)
		return ""
	}
	return fmt.Sprintf("[Watcher] Heads up: the timer for %s finished and is waiting on you.", joinNames(waiting))
}

// joinNames joins names as "a", "a and b", "a, b and c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
