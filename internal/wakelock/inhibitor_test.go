package wakelock

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
)

func testLogger() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func TestInhibitorUnsupportedPlatform(t *testing.T) {
	i := NewInhibitor(testLogger())
	i.goos = "plan9"

	h, err := i.Acquire(context.Background())
	assert.Nil(t, h)
	assert.ErrorIs(t, err, domain.ErrWakeLockUnavailable)
}

func TestInhibitorHoldsProcessUntilRelease(t *testing.T) {
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}

	i := NewInhibitor(testLogger(), WithCommand(sleep, "30"))
	h, err := i.Acquire(context.Background())
	require.NoError(t, err)

	ph, ok := h.(*processHandle)
	require.True(t, ok)
	select {
	case <-ph.done:
		t.Fatal("helper exited before release")
	default:
	}

	require.NoError(t, h.Release())
	<-ph.done

	// Idempotent.
	assert.NoError(t, h.Release())
}

func TestInhibitorHelperExitingAtStartIsUnavailable(t *testing.T) {
	falseBin, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}

	h, err := NewInhibitor(testLogger(), WithCommand(falseBin)).Acquire(context.Background())
	assert.Nil(t, h)
	require.ErrorIs(t, err, domain.ErrWakeLockUnavailable)
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestInhibitorHelperDyingWhileHeldWarns(t *testing.T) {
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}

	var buf bytes.Buffer
	log := logger.New(logger.LevelNormal, &buf)
	i := NewInhibitor(log, WithCommand(sleep, "1"), WithGrace(20*time.Millisecond))

	h, err := i.Acquire(context.Background())
	require.NoError(t, err)
	ph := h.(*processHandle)

	select {
	case <-ph.done:
	case <-time.After(5 * time.Second):
		t.Fatal("helper never exited")
	}
	assert.Contains(t, buf.String(), "helper exited while the lock was held")
	assert.NoError(t, h.Release())
}

func TestInhibitorReleaseDoesNotWarn(t *testing.T) {
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}

	var buf bytes.Buffer
	log := logger.New(logger.LevelNormal, &buf)
	h, err := NewInhibitor(log, WithCommand(sleep, "30"), WithGrace(20*time.Millisecond)).Acquire(context.Background())
	require.NoError(t, err)

	require.NoError(t, h.Release())
	assert.NotContains(t, buf.String(), "helper exited")
}

func TestInhibitorCancelledContext(t *testing.T) {
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewInhibitor(testLogger(), WithCommand(sleep, "30")).Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInhibitorMissingCommand(t *testing.T) {
	i := NewInhibitor(testLogger(), WithCommand("/nonexistent/sous-inhibit"))
	_, err := i.Acquire(context.Background())
	assert.Error(t, err)
}

func TestNewBackend(t *testing.T) {
	sa, err := New("auto", testLogger())
	require.NoError(t, err)
	assert.IsType(t, &Inhibitor{}, sa)

	sa, err = New("none", testLogger())
	require.NoError(t, err)
	h, err := sa.Acquire(context.Background())
	require.NoError(t, err)
	assert.NoError(t, h.Release())

	_, err = New("bogus", testLogger())
	assert.Error(t, err)
}
