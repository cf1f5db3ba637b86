package goal

import (
	"fmt"
	"time"
)

// StartOfDay normalizes t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysLeft returns the number of whole calendar days from now until the
// end date. Zero means due today; negative means overdue.
func DaysLeft(endDate, now time.Time) int {
	end := StartOfDay(endDate)
	today := StartOfDay(now)
	return int(end.Sub(today).Hours() / 24)
}

// Countdown renders a short label for the time remaining until endDate.
func Countdown(endDate, now time.Time) string {
	days := DaysLeft(endDate, now)
	switch {
	case days == 0:
		return "due today"
	case days == 1:
		return "1d left"
	case days > 1:
		return fmt.Sprintf("%dd left", days)
	case days == -1:
		return "1d overdue"
	default:
		return fmt.Sprintf("%dd overdue", -days)
	}
}
