package timer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
)

// mockNotifier collects notifications for testing.
type mockNotifier struct {
	mu       sync.Mutex
	messages []string
	urgent   []string
}

func (m *mockNotifier) Notify(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockNotifier) NotifyUrgent(_ context.Context, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urgent = append(m.urgent, msg)
	return nil
}

func (m *mockNotifier) urgentMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.urgent...)
}

func (m *mockNotifier) normalMessages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

const (
	waitFor = 2 * time.Second
	poll    = 5 * time.Millisecond
)

func newTestScheduler(t *testing.T, opts ...Option) (*Scheduler, *mockNotifier) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	notifier := &mockNotifier{}
	opts = append([]Option{WithTickInterval(2 * time.Millisecond)}, opts...)
	s := New(NewRegistry(log), notifier, log, opts...)
	t.Cleanup(s.Stop)
	return s, notifier
}

func TestSchedulerRunsTimerToCompletion(t *testing.T) {
	s, notifier := newTestScheduler(t, WithTickInterval(20*time.Millisecond))
	require.True(t, s.Create("boil", 3, "Water boiling"))
	assert.False(t, s.Running(), "driver stays off until a timer starts")

	s.Start("boil")
	assert.True(t, s.Running())

	assert.Eventually(t, func() bool {
		ts, _ := s.Registry().Get("boil")
		return ts.IsCompleted
	}, waitFor, poll)

	assert.Eventually(t, func() bool { return !s.Running() }, waitFor, poll,
		"driver stops once nothing is running")

	assert.Eventually(t, func() bool {
		return len(notifier.urgentMessages()) == 1
	}, waitFor, poll)
	assert.Equal(t, "[Timer] Water boiling is up.", notifier.urgentMessages()[0])
}

func TestSchedulerDefaultLabel(t *testing.T) {
	s, notifier := newTestScheduler(t)
	s.Create("x", 1, "")
	s.Start("x")

	assert.Eventually(t, func() bool {
		msgs := notifier.urgentMessages()
		return len(msgs) == 1 && msgs[0] == "[Timer] Timer is up."
	}, waitFor, poll)
}

func TestSchedulerCompletionHook(t *testing.T) {
	var mu sync.Mutex
	var got []string
	s, _ := newTestScheduler(t, WithCompletionHook(func(ts domain.TimerState) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ts.StepID)
	}))

	s.Create("a", 1, "A")
	s.Create("b", 2, "B")
	s.Start("a")
	s.Start("b")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, waitFor, poll)
	mu.Lock()
	assert.Equal(t, []string{"a", "b"}, got)
	mu.Unlock()
}

func TestSchedulerPausingLastTimerStopsDriver(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.Create("a", 1000, "A")
	s.Create("b", 1000, "B")

	s.Start("a")
	s.Start("b")
	require.True(t, s.Running())

	s.Pause("a")
	assert.True(t, s.Running(), "b is still running")

	s.Pause("b")
	assert.False(t, s.Running())

	s.Start("a")
	assert.True(t, s.Running(), "driver restarts when a timer resumes")

	s.Reset("a")
	assert.False(t, s.Running())
}

func TestSchedulerStopIsSynchronous(t *testing.T) {
	s, _ := newTestScheduler(t, WithTickInterval(time.Millisecond))
	s.Create("a", 100000, "A")
	s.Start("a")

	assert.Eventually(t, func() bool {
		ts, _ := s.Registry().Get("a")
		return ts.RemainingSeconds < 100000
	}, waitFor, poll)

	s.Stop()
	frozen, _ := s.Registry().Get("a")
	time.Sleep(20 * time.Millisecond)
	after, _ := s.Registry().Get("a")

	assert.Equal(t, frozen.RemainingSeconds, after.RemainingSeconds)
	assert.False(t, s.Running())
}

func TestSchedulerClearDiscardsTimers(t *testing.T) {
	s, notifier := newTestScheduler(t, WithTickInterval(50*time.Millisecond))
	s.Create("a", 2, "A")
	s.Start("a")

	s.Clear()
	assert.False(t, s.Running())
	assert.Equal(t, 0, s.Registry().Len())

	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, notifier.urgentMessages())

	// Starting a cleared timer does nothing.
	s.Start("a")
	assert.False(t, s.Running())
}

func TestSchedulerToggle(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.Create("a", 1000, "A")

	s.Toggle("a")
	ts, _ := s.Registry().Get("a")
	assert.True(t, ts.IsRunning)

	s.Toggle("a")
	ts, _ = s.Registry().Get("a")
	assert.False(t, ts.IsRunning)

	s.Toggle("missing")
	assert.False(t, s.Running())
}

func TestSchedulerRejectsInvalidTimer(t *testing.T) {
	s, _ := newTestScheduler(t)
	assert.False(t, s.Create("a", 0, "A"))
	s.Start("a")
	assert.False(t, s.Running())
}
