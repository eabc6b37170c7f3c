package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/sous/internal/chime"
	"github.com/hammamikhairi/sous/internal/config"
	"github.com/hammamikhairi/sous/internal/conversation"
	"github.com/hammamikhairi/sous/internal/display"
	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
	"github.com/hammamikhairi/sous/internal/recipe"
	"github.com/hammamikhairi/sous/internal/session"
	"github.com/hammamikhairi/sous/internal/timer"
	"github.com/hammamikhairi/sous/internal/voice"
	"github.com/hammamikhairi/sous/internal/wakelock"
)

func newCookCommand(opts *RootOptions) *cobra.Command {
	var servings int
	var withVoice bool

	cmd := &cobra.Command{
		Use:   "cook <recipe-id>",
		Short: "Cook a recipe step by step",
		Long: `Open the cooking screen: one step at a time, a timer per timed step,
and the display kept awake until you leave cooking mode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("voice") {
				opts.cfg.Voice.Enabled = withVoice
			}
			return runCook(cmd.Context(), opts, args[0], servings)
		},
	}

	cmd.Flags().IntVarP(&servings, "servings", "s", 0, "serving count (recipe default when 0)")
	cmd.Flags().BoolVar(&withVoice, "voice", false, "accept spoken commands through whisper")
	return cmd
}

func runCook(parent context.Context, opts *RootOptions, id string, servings int) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	r, err := opts.getRecipe(ctx, id)
	if err != nil {
		return err
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("recipe %q: %w", id, domain.ErrNoSteps)
	}

	cfg := opts.cfg
	log := opts.log

	stay, err := wakelock.New(cfg.WakeLock, log)
	if err != nil {
		return err
	}

	screenNotifier := display.NewNotifier()
	notifier := withChime(screenNotifier, cfg.Chime, log)

	sched := timer.New(timer.NewRegistry(log.Named("timers")), notifier, log.Named("scheduler"),
		timer.WithTickInterval(cfg.TickInterval),
	)
	ctrl := session.New(sched, stay, log.Named("session"))
	ctrl.Load(r.Steps)
	defer ctrl.EndSession()
	ctrl.EnableCookingMode(ctx)

	screen := display.NewScreen(ctx, ctrl, r, opts.servingsFor(r, servings), log.Named("screen"))
	ui := display.NewUI(ctx, screen)
	screenNotifier.Attach(ui)

	watcher := timer.NewWatcher(ctrl, notifier, log.Named("watcher"), timer.WithWatchInterval(cfg.WatchInterval))
	go watcher.Run(ctx)

	if dir, ok := opts.recipes.(*recipe.DirSource); ok {
		startReloader(ctx, dir, r.ID, ctrl, ui, notifier, log.Named("reload"))
	}
	if cfg.Voice.Enabled {
		startVoice(ctx, cfg.Voice, ui, log.Named("voice"))
	}

	log.Info("cooking %s (session %s)", r.ID, ctrl.View().ID)
	final, err := ui.Run()
	if err != nil {
		return fmt.Errorf("running cooking screen: %w", err)
	}
	log.Info("left %s at %d servings, %d/%d steps done",
		r.ID, final.Servings(), ctrl.View().CompletedCount, len(ctrl.View().Steps))
	return nil
}

// withChime adds the audio alert to urgent notifications when enabled and
// an audio device is available.
func withChime(n domain.Notifier, enabled bool, log *logger.Logger) domain.Notifier {
	if !enabled {
		return n
	}
	player, err := chime.NewPlayer(log.Named("chime"))
	if err != nil {
		log.Warn("audio unavailable, chime disabled: %v", err)
		return n
	}
	return chime.NewNotifier(n, player, log.Named("chime"))
}

// startReloader reloads the recipe when its file changes. Reloading ends
// the current session and starts a fresh one on the new steps.
func startReloader(ctx context.Context, src *recipe.DirSource, id string, ctrl *session.Controller, ui *display.UI, n domain.Notifier, log *logger.Logger) {
	w, err := recipe.NewWatcher(src.Dir(), log)
	if err != nil {
		log.Warn("recipe reload disabled: %v", err)
		return
	}
	go w.Run(ctx)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case changed := <-w.C():
				if changed != id {
					continue
				}
				r, err := src.Get(ctx, id)
				if err != nil {
					log.Warn("reloading %s: %v", id, err)
					_ = n.Notify(ctx, fmt.Sprintf("Couldn't reload %s: %v", id, err))
					continue
				}
				ctrl.Load(r.Steps)
				ctrl.EnableCookingMode(ctx)
				ui.Send(display.RecipeMsg{Recipe: r})
			}
		}
	}()
}

// startVoice feeds spoken commands to the screen.
func startVoice(ctx context.Context, cfg config.Voice, ui *display.UI, log *logger.Logger) {
	listener := voice.NewListener(cfg.WhisperBin, cfg.Model, log,
		voice.WithChunk(cfg.Chunk),
		voice.WithWakeWords(cfg.WakeWords...),
	)
	parser := conversation.NewKeywordParser(log.Named("parser"))

	go listener.Run(ctx)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case text := <-listener.C():
				cmd, err := parser.Parse(ctx, text)
				if err != nil {
					log.Warn("parsing %q: %v", text, err)
					continue
				}
				ui.Send(display.NoticeMsg{Text: "[voice] " + text})
				ui.Send(display.CommandMsg{Command: *cmd})
			}
		}
	}()
}
