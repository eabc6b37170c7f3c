package chime

import (
	"bytes"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/sous/internal/logger"
)

// Sounder makes the alert sound.
type Sounder interface {
	Chime() error
}

var _ Sounder = (*Player)(nil)

// Player plays PCM through the system audio device via oto. Only one
// Player may exist per process.
type Player struct {
	ctx    *oto.Context
	log    *logger.Logger
	chime  []byte
	mu     sync.Mutex
	active *oto.Player // currently playing, nil when idle
}

// NewPlayer initializes the audio device. Returns an error if no device is
// available.
func NewPlayer(log *logger.Logger) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: ChannelCount,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	log.Debug("audio initialized (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &Player{
		ctx:   ctx,
		log:   log,
		chime: Tone(DefaultNotes, 250*time.Millisecond, 0.6),
	}, nil
}

// Chime plays the alert and blocks until it finishes.
func (p *Player) Chime() error {
	return p.Play(p.chime)
}

// Play plays raw PCM synchronously. Blocks until playback finishes or
// Stop is called. A chime already playing is cut off.
func (p *Player) Play(pcm []byte) error {
	p.Stop()

	player := p.ctx.NewPlayer(bytes.NewReader(pcm))

	p.mu.Lock()
	p.active = player
	p.mu.Unlock()

	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}

	p.mu.Lock()
	if p.active == player {
		p.active = nil
	}
	p.mu.Unlock()

	return player.Close()
}

// Stop interrupts playback, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	if active != nil {
		active.Pause()
		p.log.Debug("playback interrupted")
	}
}
