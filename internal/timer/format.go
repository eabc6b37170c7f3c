package timer

import "fmt"

// FormatClock renders seconds as M:SS, minutes unpadded.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatRemaining returns a spoken-style duration for reminders.
// Rounds to the nearest minute once there's at least 1 minute left.
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		if seconds == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", seconds)
	}
	m := (seconds + 30) / 60
	if m == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", m)
}
