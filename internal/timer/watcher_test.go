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

// staticView serves whatever view the test sets.
type staticView struct {
	mu   sync.Mutex
	view domain.SessionView
}

func (s *staticView) View() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *staticView) set(v domain.SessionView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

func timedStep(id string, n int, ts domain.TimerState, completed bool) domain.StepView {
	return domain.StepView{
		Step:      domain.InstructionStep{ID: id, StepNumber: n, TimerSeconds: ts.TotalSeconds},
		Timer:     &ts,
		Completed: completed,
	}
}

func finished(id string) domain.TimerState {
	return domain.TimerState{StepID: id, TotalSeconds: 60, IsCompleted: true}
}

func TestWatcherNudgesFinishedTimerOnce(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	notifier := &mockNotifier{}
	src := &staticView{view: domain.SessionView{
		ID: "s1",
		Steps: []domain.StepView{
			timedStep("boil", 1, finished("boil"), false),
			{Step: domain.InstructionStep{ID: "chop", StepNumber: 2}},
			timedStep("sear", 3, finished("sear"), false),
		},
	}}
	w := NewWatcher(src, notifier, log)
	ctx := context.Background()

	w.Check(ctx)
	w.Check(ctx)

	msgs := notifier.normalMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "[Watcher] Heads up: the timer for step 1 and step 3 finished and is waiting on you.", msgs[0])
}

func TestWatcherQuietForCompletedSteps(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	notifier := &mockNotifier{}
	src := &staticView{view: domain.SessionView{
		ID:    "s1",
		Steps: []domain.StepView{timedStep("boil", 1, finished("boil"), true)},
	}}

	NewWatcher(src, notifier, log).Check(context.Background())
	assert.Empty(t, notifier.normalMessages())
}

func TestWatcherRearmsAfterReset(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	notifier := &mockNotifier{}
	src := &staticView{view: domain.SessionView{
		ID:    "s1",
		Steps: []domain.StepView{timedStep("boil", 1, finished("boil"), false)},
	}}
	w := NewWatcher(src, notifier, log)
	ctx := context.Background()

	w.Check(ctx)
	src.set(domain.SessionView{
		ID:    "s1",
		Steps: []domain.StepView{timedStep("boil", 1, domain.TimerState{StepID: "boil", TotalSeconds: 60, RemainingSeconds: 60}, false)},
	})
	w.Check(ctx)
	src.set(domain.SessionView{
		ID:    "s1",
		Steps: []domain.StepView{timedStep("boil", 1, finished("boil"), false)},
	})
	w.Check(ctx)

	assert.Len(t, notifier.normalMessages(), 2)
}

func TestWatcherRunLoop(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	notifier := &mockNotifier{}
	src := &staticView{view: domain.SessionView{
		ID:    "s1",
		Steps: []domain.StepView{timedStep("boil", 1, finished("boil"), false)},
	}}
	w := NewWatcher(src, notifier, log, WithWatchInterval(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(notifier.normalMessages()) == 1 }, waitFor, poll)
	cancel()
	<-done
}

func TestJoinNames(t *testing.T) {
	assert.Equal(t, "", joinNames(nil))
	assert.Equal(t, "a", joinNames([]string{"a"}))
	assert.Equal(t, "a and b", joinNames([]string{"a", "b"}))
	assert.Equal(t, "a, b and c", joinNames([]string{"a", "b", "c"}))
}
