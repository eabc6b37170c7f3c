// Package cli implements the sous command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/sous/internal/config"
	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
	"github.com/hammamikhairi/sous/internal/recipe"
)

// RootOptions holds global flags and the state every command shares.
type RootOptions struct {
	Verbose    bool
	Quiet      bool
	LogFile    string
	RecipesDir string

	sources  config.Sources
	cfg      config.Config
	log      *logger.Logger
	logClose io.Closer
	recipes  domain.RecipeSource
}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{sources: config.DefaultSources()})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sous",
		Short: "sous - a hands-free cooking companion",
		Long: `Scale recipes, build shopping lists, and cook step by step with
per-step timers while the screen stays awake.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			opts.teardown()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose/debug logging")
	cmd.PersistentFlags().BoolVarP(&opts.Quiet, "quiet", "q", false, "disable all logging")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", `file to write logs to ("stderr" logs to the console)`)
	cmd.PersistentFlags().StringVar(&opts.RecipesDir, "recipes-dir", "", "directory of YAML recipes (built-in recipes when empty)")

	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newShopCommand(opts))
	cmd.AddCommand(newCookCommand(opts))
	cmd.AddCommand(newTimerCommand(opts))

	return cmd
}

// Execute runs the command line and returns the process exit code.
// SIGINT and SIGTERM cancel the command context.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// setup loads the configuration, applies flags on top, and opens the log.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.sources)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") && o.Verbose {
		cfg.LogLevel = logger.LevelVerbose.String()
	}
	if flags.Changed("quiet") && o.Quiet {
		cfg.LogLevel = logger.LevelOff.String()
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.LogFile
	}
	if flags.Changed("recipes-dir") {
		cfg.RecipesDir = o.RecipesDir
	}
	o.cfg = cfg

	o.log, o.logClose = openLog(cfg, cmd.ErrOrStderr())

	if cfg.RecipesDir != "" {
		o.recipes = recipe.NewDirSource(cfg.RecipesDir, o.log.Named("recipes"))
	} else {
		o.recipes = recipe.NewMemorySource(o.log.Named("recipes"))
	}

	o.log.Debug("config: %+v", cfg)
	return nil
}

func (o *RootOptions) teardown() {
	if o.logClose != nil {
		o.logClose.Close()
		o.logClose = nil
	}
}
