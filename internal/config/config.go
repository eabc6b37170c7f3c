// Package config loads sous settings from defaults, sous.yaml files, a
// .env file and SOUS_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/sous/internal/logger"
)

// FileName is the settings file looked up in each config directory.
const FileName = "sous.yaml"

// Config holds every setting.
type Config struct {
	LogLevel        string        `yaml:"log_level"`
	LogFile         string        `yaml:"log_file"`
	RecipesDir      string        `yaml:"recipes_dir"`
	DefaultServings int           `yaml:"default_servings"`
	TickInterval    time.Duration `yaml:"tick_interval"`
	WatchInterval   time.Duration `yaml:"watch_interval"`
	WakeLock        string        `yaml:"wake_lock"`
	Chime           bool          `yaml:"chime"`
	Voice           Voice         `yaml:"voice"`
}

// Voice holds the hands-free input settings.
type Voice struct {
	Enabled    bool          `yaml:"enabled"`
	WhisperBin string        `yaml:"whisper_bin"`
	Model      string        `yaml:"model"`
	Chunk      time.Duration `yaml:"chunk"`
	WakeWords  []string      `yaml:"wake_words"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:      "normal",
		LogFile:       ".sous-logs/sous.log",
		TickInterval:  time.Second,
		WatchInterval: time.Minute,
		WakeLock:      "auto",
		Chime:         true,
		Voice: Voice{
			WhisperBin: "whisper-cli",
			Model:      "bin/ggml-small.bin",
			Chunk:      3 * time.Second,
		},
	}
}

// Sources says where Load looks. Empty fields are skipped.
type Sources struct {
	GlobalDir string // e.g. ~/.config/sous
	LocalDir  string // usually the working directory
	EnvFile   string // e.g. .env
	// Lookup reads the process environment. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// DefaultSources looks in ~/.config/sous, the working directory and ./.env.
func DefaultSources() Sources {
	s := Sources{LocalDir: ".", EnvFile: ".env", Lookup: os.LookupEnv}
	if dir, err := os.UserConfigDir(); err == nil {
		s.GlobalDir = filepath.Join(dir, "sous")
	}
	return s
}

// Load builds the configuration. Later sources win: defaults, global
// sous.yaml, local sous.yaml, .env, then the process environment.
func Load(src Sources) (Config, error) {
	cfg := Default()

	for _, dir := range []string{src.GlobalDir, src.LocalDir} {
		if dir == "" {
			continue
		}
		if err := cfg.mergeFile(filepath.Join(dir, FileName)); err != nil {
			return cfg, err
		}
	}

	env := map[string]string{}
	if src.EnvFile != "" {
		vars, err := godotenv.Read(src.EnvFile)
		switch {
		case err == nil:
			env = vars
		case !errors.Is(err, os.ErrNotExist):
			return cfg, fmt.Errorf("reading %s: %w", src.EnvFile, err)
		}
	}
	lookup := src.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}

	if err := cfg.applyEnv(get); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays SOUS_* variables.
func (c *Config) applyEnv(get func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := get(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := get(key)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}
	boolean := func(key string, dst *bool) error {
		v, ok := get(key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str("SOUS_LOG_LEVEL", &c.LogLevel)
	str("SOUS_LOG_FILE", &c.LogFile)
	str("SOUS_RECIPES_DIR", &c.RecipesDir)
	str("SOUS_WAKE_LOCK", &c.WakeLock)
	str("SOUS_WHISPER_BIN", &c.Voice.WhisperBin)
	str("SOUS_WHISPER_MODEL", &c.Voice.Model)

	if v, ok := get("SOUS_DEFAULT_SERVINGS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("SOUS_DEFAULT_SERVINGS: %w", err)
		}
		c.DefaultServings = n
	}
	if v, ok := get("SOUS_WAKE_WORDS"); ok {
		c.Voice.WakeWords = splitList(v)
	}

	for _, err := range []error{
		dur("SOUS_TICK_INTERVAL", &c.TickInterval),
		dur("SOUS_WATCH_INTERVAL", &c.WatchInterval),
		dur("SOUS_VOICE_CHUNK", &c.Voice.Chunk),
		boolean("SOUS_CHIME", &c.Chime),
		boolean("SOUS_VOICE", &c.Voice.Enabled),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.DefaultServings < 0 {
		return fmt.Errorf("default_servings: must not be negative, got %d", c.DefaultServings)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval: must be positive, got %s", c.TickInterval)
	}
	if c.WatchInterval <= 0 {
		return fmt.Errorf("watch_interval: must be positive, got %s", c.WatchInterval)
	}
	switch strings.ToLower(c.WakeLock) {
	case "auto", "none", "off":
	default:
		return fmt.Errorf("wake_lock: want auto or none, got %q", c.WakeLock)
	}
	if c.Voice.Enabled && c.Voice.Chunk <= 0 {
		return fmt.Errorf("voice.chunk: must be positive, got %s", c.Voice.Chunk)
	}
	return nil
}

// Level returns the parsed log level. Call after Validate.
func (c Config) Level() logger.Level {
	lvl, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelNormal
	}
	return lvl
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
