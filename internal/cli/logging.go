package cli

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/hammamikhairi/sous/internal/config"
	"github.com/hammamikhairi/sous/internal/logger"
)

// openLog creates the application logger. Logs go to a file by default so
// the cooking screen stays clean; "stderr" logs to the console. The
// standard library logger (used by the whisper transcriber) is redirected
// to the same place.
func openLog(cfg config.Config, stderr io.Writer) (*logger.Logger, io.Closer) {
	level := cfg.Level()
	if level == logger.LevelOff {
		stdlog.SetOutput(io.Discard)
		return logger.New(level, io.Discard), nil
	}

	var out io.Writer = stderr
	var closer io.Closer
	if cfg.LogFile != "" && cfg.LogFile != "stderr" {
		if dir := filepath.Dir(cfg.LogFile); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
		} else {
			out = f
			closer = f
		}
	}

	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	return logger.New(level, out), closer
}
