package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/sous/internal/chime"
	"github.com/hammamikhairi/sous/internal/conversation"
	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/timer"
)

const kitchenTimerID = "kitchen"

func newTimerCommand(opts *RootOptions) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "timer <duration>",
		Short: "Run a standalone kitchen timer",
		Long: `Count down in the terminal and alert when done. The duration is a Go
duration ("4m30s") or a number of seconds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secs, err := parseSeconds(args[0])
			if err != nil {
				return err
			}

			out := &syncWriter{w: cmd.OutOrStdout()}
			log := opts.log.Named("timer")
			notifier := conversation.NewCLINotifier(log, func(format string, a ...interface{}) {
				fmt.Fprintf(out, "\r"+format+"\n", a...)
			})

			done := make(chan domain.TimerState, 1)
			sched := timer.New(timer.NewRegistry(log), notifier, log,
				timer.WithTickInterval(opts.cfg.TickInterval),
				timer.WithCompletionHook(func(ts domain.TimerState) { done <- ts }),
			)
			defer sched.Clear()

			sched.Create(kitchenTimerID, secs, label)
			sched.Start(kitchenTimerID)

			ticker := time.NewTicker(opts.cfg.TickInterval)
			defer ticker.Stop()
			for {
				select {
				case <-cmd.Context().Done():
					fmt.Fprintln(out)
					return cmd.Context().Err()
				case <-done:
					if opts.cfg.Chime {
						ring(opts)
					}
					return nil
				case <-ticker.C:
					if ts, ok := sched.Registry().Get(kitchenTimerID); ok && !ts.IsCompleted {
						fmt.Fprintf(out, "\r⏲ %s ", timer.FormatClock(ts.RemainingSeconds))
					}
				}
			}
		},
	}

	cmd.Flags().StringVarP(&label, "label", "l", "", "name announced when the timer is up")
	return cmd
}

// syncWriter serializes writes from the countdown loop and the
// scheduler's notifier.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func ring(opts *RootOptions) {
	player, err := chime.NewPlayer(opts.log.Named("chime"))
	if err != nil {
		opts.log.Warn("audio unavailable: %v", err)
		return
	}
	if err := player.Chime(); err != nil {
		opts.log.Warn("chime: %v", err)
	}
}

// parseSeconds reads "90" or "1m30s" as a positive whole number of seconds.
func parseSeconds(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("duration must be positive, got %q", s)
		}
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	n := int(d.Round(time.Second) / time.Second)
	if n <= 0 {
		return 0, fmt.Errorf("duration must be at least one second, got %q", s)
	}
	return n, nil
}
