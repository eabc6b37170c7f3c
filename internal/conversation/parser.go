// Package conversation turns typed or spoken input into cooking commands
// and prints notifications to the terminal.
package conversation

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/sous/internal/domain"
	"github.com/hammamikhairi/sous/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches input to commands using keywords and simple
// patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex   *regexp.Regexp
	command domain.CommandType
}

// servingsPattern captures the count in "servings 6", "make it for 6",
// "serves 6 people" and similar.
var servingsPattern = regexp.MustCompile(`(?i)^(?:servings?|serves|scale(?: to)?|make (?:it )?for|for)\s+(\d{1,3})(?:\s+(?:people|persons|servings?))?$`)

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regexp.MustCompile(`(?i)^(next|next step|continue|forward|n)$`), domain.CommandNext},
		{regexp.MustCompile(`(?i)^(back|previous|previous step|go back|prev|b)$`), domain.CommandPrevious},
		{regexp.MustCompile(`(?i)^(done|check|mark( it)? done|complete|undo|uncheck|x)$`), domain.CommandToggleComplete},
		{regexp.MustCompile(`(?i)^(start( the)? timer|timer|go|start|t)$`), domain.CommandStartTimer},
		{regexp.MustCompile(`(?i)^(pause( the)? timer|pause|hold on|wait|p)$`), domain.CommandPauseTimer},
		{regexp.MustCompile(`(?i)^(reset( the)? timer|reset|restart timer)$`), domain.CommandResetTimer},
		{regexp.MustCompile(`(?i)^(cooking mode on|cook|let'?s cook|begin|c)$`), domain.CommandCookingOn},
		{regexp.MustCompile(`(?i)^(cooking mode off|stop cooking|exit cooking mode|off)$`), domain.CommandCookingOff},
		{regexp.MustCompile(`(?i)^(help|h|\?)$`), domain.CommandHelp},
		{regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), domain.CommandQuit},
	}
	return p
}

// Parse converts input into a command. Input that matches nothing comes
// back as CommandUnknown with the input as payload.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	trimmed := normalize(input)
	if trimmed == "" {
		return &domain.Command{Type: domain.CommandUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	if m := servingsPattern.FindStringSubmatch(trimmed); m != nil {
		return &domain.Command{Type: domain.CommandServings, Payload: m[1]}, nil
	}

	for _, rule := range p.patterns {
		if rule.regex.MatchString(trimmed) {
			p.log.Debug("matched command: %s", rule.command)
			return &domain.Command{Type: rule.command}, nil
		}
	}

	p.log.Debug("no match, returning unknown command")
	return &domain.Command{Type: domain.CommandUnknown, Payload: trimmed}, nil
}

// Servings reads the target count out of a CommandServings payload.
func Servings(cmd *domain.Command) (int, bool) {
	if cmd == nil || cmd.Type != domain.CommandServings {
		return 0, false
	}
	n, err := strconv.Atoi(cmd.Payload)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// normalize trims whitespace and the trailing punctuation speech
// recognition tends to add ("Next step." -> "Next step").
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ".!,")
	return strings.Join(strings.Fields(s), " ")
}
