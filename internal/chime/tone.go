// Package chime plays a short synthesized alert when a timer finishes.
package chime

import (
	"encoding/binary"
	"math"
	"time"
)

// Audio format used for every chime.
const (
	SampleRate     = 24000
	ChannelCount   = 1
	bytesPerSample = 2
)

// DefaultNotes is the two-tone "ding-dong" (A5 then E5).
var DefaultNotes = []float64{880, 659.25}

// Tone renders the notes back to back as signed 16-bit little-endian mono
// PCM. Each note gets a short linear fade in and out so it doesn't click.
func Tone(notes []float64, noteLen time.Duration, volume float64) []byte {
	volume = math.Max(0, math.Min(1, volume))
	perNote := int(noteLen.Seconds() * SampleRate)
	if perNote <= 0 || len(notes) == 0 {
		return nil
	}
	fade := perNote / 10

	pcm := make([]byte, 0, perNote*len(notes)*bytesPerSample)
	buf := make([]byte, bytesPerSample)
	for _, freq := range notes {
		for n := 0; n < perNote; n++ {
			env := 1.0
			switch {
			case n < fade:
				env = float64(n) / float64(fade)
			case n >= perNote-fade:
				env = float64(perNote-1-n) / float64(fade)
			}
			v := math.Sin(2*math.Pi*freq*float64(n)/SampleRate) * env * volume
			binary.LittleEndian.PutUint16(buf, uint16(int16(v*math.MaxInt16)))
			pcm = append(pcm, buf...)
		}
	}
	return pcm
}
