package household

import "fmt"

// FormatMinutes renders a minute count the way the dashboard shows it:
// 90 -> "1h 30m", 120 -> "2h", 45 -> "45m". The sign is dropped.
func FormatMinutes(minutes int64) string {
	if minutes < 0 {
		minutes = -minutes
	}
	h, m := minutes/60, minutes%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
