package chime

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/sous/internal/logger"
)

func TestToneLength(t *testing.T) {
	pcm := Tone(DefaultNotes, 100*time.Millisecond, 1)
	perNote := SampleRate / 10
	assert.Len(t, pcm, perNote*len(DefaultNotes)*bytesPerSample)
}

func TestToneFadesAndStaysInRange(t *testing.T) {
	pcm := Tone([]float64{440}, 50*time.Millisecond, 0.5)
	require.NotEmpty(t, pcm)

	first := int16(binary.LittleEndian.Uint16(pcm[0:2]))
	last := int16(binary.LittleEndian.Uint16(pcm[len(pcm)-2:]))
	assert.Zero(t, first)
	assert.Zero(t, last)

	for i := 0; i < len(pcm); i += 2 {
		v := int16(binary.LittleEndian.Uint16(pcm[i : i+2]))
		assert.LessOrEqual(t, int(v), 16384)
		assert.GreaterOrEqual(t, int(v), -16384)
	}
}

func TestToneEmpty(t *testing.T) {
	assert.Nil(t, Tone(nil, time.Second, 1))
	assert.Nil(t, Tone(DefaultNotes, 0, 1))
}

type recordingNotifier struct {
	mu     sync.Mutex
	normal []string
	urgent []string
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normal = append(r.normal, msg)
	return r.err
}

func (r *recordingNotifier) NotifyUrgent(_ context.Context, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urgent = append(r.urgent, msg)
	return r.err
}

type countingSounder struct {
	mu    sync.Mutex
	count int
}

func (c *countingSounder) Chime() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	return nil
}

func (c *countingSounder) chimes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func TestNotifierChimesOnlyWhenUrgent(t *testing.T) {
	text := &recordingNotifier{}
	sound := &countingSounder{}
	n := NewNotifier(text, sound, logger.New(logger.LevelOff, nil))

	require.NoError(t, n.Notify(context.Background(), "hello"))
	require.NoError(t, n.NotifyUrgent(context.Background(), "[Timer] Step 2 is up."))

	assert.Eventually(t, func() bool { return sound.chimes() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"hello"}, text.normal)
	assert.Equal(t, []string{"[Timer] Step 2 is up."}, text.urgent)
}

func TestNotifierSkipsChimeOnTextError(t *testing.T) {
	text := &recordingNotifier{err: errors.New("closed")}
	sound := &countingSounder{}
	n := NewNotifier(text, sound, logger.New(logger.LevelOff, nil))

	assert.Error(t, n.NotifyUrgent(context.Background(), "x"))
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, sound.chimes())
}
