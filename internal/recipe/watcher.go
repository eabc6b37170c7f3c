package recipe

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hammamikhairi/sous/internal/logger"
)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits for a burst of file events
// to settle before reporting.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// Watcher reports the IDs of recipe files that change in a directory.
type Watcher struct {
	fw       *fsnotify.Watcher
	dir      string
	debounce time.Duration
	log      *logger.Logger
	out      chan string
}

// NewWatcher starts watching dir. The watch is active once NewWatcher
// returns; events are delivered after Run is called.
func NewWatcher(dir string, log *logger.Logger, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		fw:       fw,
		dir:      dir,
		debounce: 200 * time.Millisecond,
		log:      log,
		out:      make(chan string, 8),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// C returns the channel of changed recipe IDs.
func (w *Watcher) C() <-chan string {
	return w.out
}

// Run delivers events until ctx is cancelled, then closes the underlying
// watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fw.Close()

	w.log.Info("watching %s for recipe changes", w.dir)

	pending := make(map[string]bool)
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			id, ok := IDFromPath(ev.Name)
			if !ok {
				continue
			}
			w.log.Debug("%s: %s", ev.Op, ev.Name)
			pending[id] = true
			if flush == nil {
				flush = time.After(w.debounce)
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("file watcher: %v", err)

		case <-flush:
			flush = nil
			ids := make([]string, 0, len(pending))
			for id := range pending {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			pending = make(map[string]bool)

			for _, id := range ids {
				select {
				case w.out <- id:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}
