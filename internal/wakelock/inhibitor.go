// Package wakelock keeps the host display awake while cooking mode is on.
package wakelock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.StayAwake  = (*Inhibitor)(nil)
	_ domain.WakeHandle = (*processHandle)(nil)
)

// defaultGrace is how long a freshly started helper must stay up before the
// lock counts as held.
const defaultGrace = 150 * time.Millisecond

// Option configures the inhibitor.
type Option func(*Inhibitor)

// WithReason sets the reason reported to the session manager.
func WithReason(reason string) Option {
	return func(i *Inhibitor) { i.reason = reason }
}

// WithCommand replaces platform detection with an explicit command that
// holds the lock for as long as it runs.
func WithCommand(name string, args ...string) Option {
	return func(i *Inhibitor) {
		i.name = name
		i.args = args
	}
}

// WithGrace sets how long the helper must survive after start.
func WithGrace(d time.Duration) Option {
	return func(i *Inhibitor) { i.grace = d }
}

// Inhibitor holds the stay-awake request by running a helper process for
// the lifetime of the lock: systemd-inhibit on Linux, caffeinate on macOS.
// Releasing the lock kills the process.
type Inhibitor struct {
	log    *logger.Logger
	reason string
	goos   string
	name   string
	args   []string
	grace  time.Duration
}

// NewInhibitor creates an inhibitor for the current platform.
func NewInhibitor(log *logger.Logger, opts ...Option) *Inhibitor {
	i := &Inhibitor{
		log:    log,
		reason: "Cooking mode is on",
		goos:   runtime.GOOS,
		grace:  defaultGrace,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Acquire starts the helper process and waits out the grace period. A
// helper that exits during it (the session manager refused, say) means the
// lock is unavailable. The process is not bound to ctx: it lives until the
// returned handle is released.
func (i *Inhibitor) Acquire(ctx context.Context) (domain.WakeHandle, error) {
	name, args, err := i.command()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", name, err)
	}

	h := &processHandle{cmd: cmd, log: i.log, done: make(chan struct{})}
	go h.wait()

	grace := time.NewTimer(i.grace)
	defer grace.Stop()
	select {
	case <-h.done:
		if h.exitErr != nil {
			return nil, fmt.Errorf("%w: %s exited: %v", domain.ErrWakeLockUnavailable, filepath.Base(name), h.exitErr)
		}
		return nil, fmt.Errorf("%w: %s exited right away", domain.ErrWakeLockUnavailable, filepath.Base(name))
	case <-ctx.Done():
		_ = h.Release()
		return nil, ctx.Err()
	case <-grace.C:
	}

	h.held.Store(true)
	i.log.Debug("%s started (pid %d)", name, cmd.Process.Pid)
	return h, nil
}

// command picks the helper for the platform.
func (i *Inhibitor) command() (string, []string, error) {
	if i.name != "" {
		return i.name, i.args, nil
	}

	var name string
	var args []string
	switch i.goos {
	case "linux":
		name = "systemd-inhibit"
		args = []string{
			"--what=idle:sleep",
			"--who=sous",
			"--why=" + i.reason,
			"--mode=block",
			"sleep", "infinity",
		}
	case "darwin":
		name = "caffeinate"
		args = []string{"-di"}
	default:
		return "", nil, fmt.Errorf("%w: unsupported platform %s", domain.ErrWakeLockUnavailable, i.goos)
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s not found: %v", domain.ErrWakeLockUnavailable, name, err)
	}
	return path, args, nil
}

// processHandle is a running helper process.
type processHandle struct {
	cmd      *exec.Cmd
	log      *logger.Logger
	once     sync.Once
	done     chan struct{}
	exitErr  error // set before done is closed
	held     atomic.Bool
	released atomic.Bool
	err      error
}

func (h *processHandle) wait() {
	h.exitErr = h.cmd.Wait()
	if h.held.Load() && !h.released.Load() {
		h.log.Warn("helper exited while the lock was held, display may sleep: %v", h.exitErr)
	}
	close(h.done)
}

// Release kills the helper and waits for it to exit. Repeated calls
// return the first result.
func (h *processHandle) Release() error {
	h.once.Do(func() {
		h.released.Store(true)
		if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			h.err = fmt.Errorf("killing wakelock helper: %w", err)
			return
		}
		<-h.done
		h.log.Debug("helper exited")
	})
	return h.err
}
