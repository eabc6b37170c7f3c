package display

import (
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

const bannerArt = `
 ___  ___  _   _ ___
/ __|/ _ \| | | / __|
\__ \ (_) | |_| \__ \
|___/\___/ \___/|___/
`

// RenderBanner returns the banner centred for a terminal of the given
// width.
func RenderBanner(width int) string {
	lines := strings.Split(strings.Trim(bannerArt, "\n"), "\n")

	maxW := 0
	for _, l := range lines {
		if len(l) > maxW {
			maxW = len(l)
		}
	}

	var b strings.Builder
	for _, l := range lines {
		if width > maxW {
			b.WriteString(strings.Repeat(" ", (width-maxW)/2))
		}
		b.WriteString(BannerStyle.Render(l))
		b.WriteByte('\n')
	}
	return b.String()
}

// TermWidth returns the current terminal column count, or 80 when stdout
// is not a terminal.
func TermWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
