package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	parser := NewKeywordParser(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.CommandType
		wantPayload string
	}{
		// Navigation
		{"next", domain.CommandNext, ""},
		{"Next step.", domain.CommandNext, ""},
		{"n", domain.CommandNext, ""},
		{"back", domain.CommandPrevious, ""},
		{"previous step", domain.CommandPrevious, ""},

		// Completion
		{"done", domain.CommandToggleComplete, ""},
		{"mark it done", domain.CommandToggleComplete, ""},

		// Timers
		{"start timer", domain.CommandStartTimer, ""},
		{"start the timer", domain.CommandStartTimer, ""},
		{"pause", domain.CommandPauseTimer, ""},
		{"hold on", domain.CommandPauseTimer, ""},
		{"reset timer", domain.CommandResetTimer, ""},

		// Cooking mode
		{"let's cook", domain.CommandCookingOn, ""},
		{"cooking mode off", domain.CommandCookingOff, ""},

		// Servings
		{"servings 6", domain.CommandServings, "6"},
		{"make it for 3 people", domain.CommandServings, "3"},
		{"serves 12", domain.CommandServings, "12"},

		// Misc
		{"help", domain.CommandHelp, ""},
		{"?", domain.CommandHelp, ""},
		{"quit", domain.CommandQuit, ""},

		// Unknown
		{"flambé the cat", domain.CommandUnknown, "flambé the cat"},
		{"   ", domain.CommandUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := parser.Parse(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, cmd.Type, "input=%q", tt.input)
			assert.Equal(t, tt.wantPayload, cmd.Payload, "input=%q", tt.input)
		})
	}
}

func TestServings(t *testing.T) {
	n, ok := Servings(&domain.Command{Type: domain.CommandServings, Payload: "4"})
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = Servings(&domain.Command{Type: domain.CommandServings, Payload: "0"})
	assert.False(t, ok)

	_, ok = Servings(&domain.Command{Type: domain.CommandNext})
	assert.False(t, ok)

	_, ok = Servings(nil)
	assert.False(t, ok)
}

func TestCLINotifier(t *testing.T) {
	var lines []string
	n := NewCLINotifier(logger.New(logger.LevelOff, nil), func(format string, a ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, a...))
	})

	require.NoError(t, n.Notify(context.Background(), "heads up"))
	require.NoError(t, n.NotifyUrgent(context.Background(), "[Timer] Step 1 is up."))

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "heads up")
	assert.Contains(t, lines[0], cyan)
	assert.Contains(t, lines[1], "[Timer] Step 1 is up.")
	assert.Contains(t, lines[1], red)
}
