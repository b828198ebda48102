package timetable

import (
	"fmt"

	"timetable.transitboard.org/internal/models"
)

// FormatTimeRemaining renders a countdown such as "5 mins" or "1 hr 20 mins".
func FormatTimeRemaining(minutes int) string {
	if minutes <= 0 {
		return "Departed"
	}
	if minutes < 60 {
		return plural(minutes, "min")
	}
	hours, rest := minutes/60, minutes%60
	if rest == 0 {
		return plural(hours, "hr")
	}
	return plural(hours, "hr") + " " + plural(rest, "min")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatTimeDisplay renders t as "h:mm AM/PM".
func FormatTimeDisplay(t models.ClockTime) string {
	return t.Display()
}
