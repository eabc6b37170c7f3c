// Package voice provides hands-free command input through a local Whisper
// model.
package voice

import (
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"

	audiotranscriber "github.com/sklyt/whisper/pkg"

	"github.com/hammamikhairi/sous/internal/logger"
)

// Option configures the listener.
type Option func(*Listener)

// WithChunk sets how long each recording lasts.
func WithChunk(d time.Duration) Option {
	return func(l *Listener) { l.chunk = d }
}

// WithTempDir sets the directory for temporary WAV files.
func WithTempDir(dir string) Option {
	return func(l *Listener) { l.tempDir = dir }
}

// WithWakeWords requires one of the phrases before a command is accepted.
// With no wake words every utterance is passed on.
func WithWakeWords(words ...string) Option {
	return func(l *Listener) { l.wakeWords = words }
}

// Listener records short chunks back to back, transcribes them with
// whisper, and sends the cleaned text on C.
type Listener struct {
	whisperBin string
	modelPath  string
	tempDir    string
	chunk      time.Duration
	wakeWords  []string
	log        *logger.Logger

	mu     sync.Mutex
	muted  bool
	textCh chan string
}

// NewListener creates a listener.
//
//   - whisperBin: path to the whisper-cli executable
//   - modelPath:  path to the GGML model file
func NewListener(whisperBin, modelPath string, log *logger.Logger, opts ...Option) *Listener {
	l := &Listener{
		whisperBin: whisperBin,
		modelPath:  modelPath,
		tempDir:    ".sous-stt",
		chunk:      3 * time.Second,
		log:        log,
		textCh:     make(chan string, 8),
	}
	for _, opt := range opts {
		opt(l)
	}

	if _, err := exec.LookPath(l.whisperBin); err != nil {
		log.Error("whisper binary %q not found in PATH: %v", l.whisperBin, err)
	}
	return l
}

// C returns the channel that receives transcribed commands.
func (l *Listener) C() <-chan string {
	return l.textCh
}

// Mute pauses listening, e.g. while a chime plays.
func (l *Listener) Mute() {
	l.mu.Lock()
	l.muted = true
	l.mu.Unlock()
	l.log.Debug("muted")
}

// Unmute resumes listening.
func (l *Listener) Unmute() {
	l.mu.Lock()
	l.muted = false
	l.mu.Unlock()
	l.log.Debug("unmuted")
}

func (l *Listener) isMuted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.muted
}

// Run records until ctx is cancelled. Call it in a goroutine.
func (l *Listener) Run(ctx context.Context) {
	l.log.Info("listening (chunk=%s, wake=%v)", l.chunk, l.wakeWords)

	for {
		select {
		case <-ctx.Done():
			l.log.Info("stopped listening")
			return
		default:
		}

		if l.isMuted() {
			select {
			case <-time.After(200 * time.Millisecond):
			case <-ctx.Done():
			}
			continue
		}

		text, ok := l.accept(Clean(l.recordChunk(ctx)))
		if !ok {
			continue
		}

		l.log.Info("heard command: %q", text)
		select {
		case l.textCh <- text:
		case <-ctx.Done():
		}
	}
}

// accept applies the wake-word gate to a cleaned transcription.
func (l *Listener) accept(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	if len(l.wakeWords) == 0 {
		return text, true
	}
	rest, found := stripWakeWord(text, l.wakeWords)
	if !found || rest == "" {
		l.log.Debug("ignored %q", text)
		return "", false
	}
	return rest, true
}

// recordChunk records one chunk and returns its transcription.
func (l *Listener) recordChunk(ctx context.Context) string {
	var result string
	var wg sync.WaitGroup
	wg.Add(1)

	callback := func(text string) {
		result = text
		wg.Done()
	}

	verbose := l.log.GetLevel() >= logger.LevelVerbose
	t, err := audiotranscriber.NewTranscriber(l.whisperBin, l.modelPath, l.tempDir, "wav", callback, verbose)
	if err != nil {
		l.log.Error("transcriber init failed: %v", err)
		l.backoff(ctx)
		return ""
	}

	if err := t.Start(); err != nil {
		l.log.Error("recording start failed: %v", err)
		l.backoff(ctx)
		return ""
	}

	select {
	case <-time.After(l.chunk):
	case <-ctx.Done():
	}

	t.Stop()
	wg.Wait()
	return result
}

func (l *Listener) backoff(ctx context.Context) {
	select {
	case <-time.After(2 * time.Second):
	case <-ctx.Done():
	}
}

// stripWakeWord looks for a wake phrase and returns what follows it.
func stripWakeWord(text string, wakeWords []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range wakeWords {
		wl := strings.ToLower(w)
		idx := strings.Index(lower, wl)
		if idx < 0 || idx+len(wl) > len(text) {
			continue
		}
		rest := strings.TrimLeft(text[idx+len(wl):], " ,.!?")
		return strings.TrimSpace(rest), true
	}
	return "", false
}
