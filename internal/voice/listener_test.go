package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hammamikhairi/sous/internal/logger"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  next  step \n", "next step"},
		{"[BLANK_AUDIO]", ""},
		{"(keyboard clicking) start the timer", "start the timer"},
		{"[00:00:00.000 --> 00:00:03.000]   done", "done"},
		{"Thank you.", ""},
		{"you", ""},
		{"pause [Music]", "pause"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestStripWakeWord(t *testing.T) {
	words := []string{"hey chef", "sous chef"}

	rest, ok := stripWakeWord("Hey chef, next step", words)
	assert.True(t, ok)
	assert.Equal(t, "next step", rest)

	rest, ok = stripWakeWord("um sous chef pause", words)
	assert.True(t, ok)
	assert.Equal(t, "pause", rest)

	_, ok = stripWakeWord("next step", words)
	assert.False(t, ok)
}

func TestAccept(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)

	open := &Listener{log: log}
	text, ok := open.accept("next")
	assert.True(t, ok)
	assert.Equal(t, "next", text)

	_, ok = open.accept("")
	assert.False(t, ok)

	gated := &Listener{log: log, wakeWords: []string{"hey chef"}}
	_, ok = gated.accept("next")
	assert.False(t, ok)

	_, ok = gated.accept("hey chef")
	assert.False(t, ok)

	text, ok = gated.accept("hey chef next")
	assert.True(t, ok)
	assert.Equal(t, "next", text)
}
