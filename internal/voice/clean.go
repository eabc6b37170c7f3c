package voice

import (
	"regexp"
	"strings"
)

// annotation matches whisper sound annotations like "(keyboard clicking)"
// or "[BLANK_AUDIO]".
var annotation = regexp.MustCompile(`[\(\[][A-Za-z][A-Za-z_\s]*[\)\]]`)

// timestamp matches a leading "[00:00:00.000 --> 00:00:03.000]".
var timestamp = regexp.MustCompile(`^\[[0-9:.]+\s*-->\s*[0-9:.]+\]`)

// hallucinations are things whisper emits on silence.
var hallucinations = map[string]bool{
	"...":                     true,
	"you":                     true,
	"thank you.":              true,
	"thank you":               true,
	"thanks for watching!":    true,
	"thank you for watching.": true,
	"bye.":                    true,
	"the end.":                true,
}

// Clean strips whisper artifacts from a transcription and collapses
// whitespace. Returns "" when nothing meaningful is left.
func Clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = timestamp.ReplaceAllString(s, "")
	s = annotation.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	if hallucinations[strings.ToLower(s)] {
		return ""
	}
	return s
}
