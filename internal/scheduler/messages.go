package scheduler

import (
	"fmt"
	"strings"
)

// reminderBody builds the user-facing reminder copy. Same-day deadlines
// (daysLeft == 0) are expressed in hours and minutes instead of days.
func reminderBody(taskTitle string, daysLeft, hoursLeft, minutesLeft int) string {
	if daysLeft == 0 {
		return fmt.Sprintf("%q is due in %s", taskTitle, hoursMinutes(hoursLeft, minutesLeft))
	}
	return fmt.Sprintf("%q is due in %d %s", taskTitle, daysLeft, plural("day", daysLeft))
}

// hoursMinutes renders "3 hours 5 minutes", dropping a zero component.
func hoursMinutes(hours, minutes int) string {
	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", hours, plural("hour", hours)))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d %s", minutes, plural("minute", minutes)))
	}
	if len(parts) == 0 {
		return "less than a minute"
	}
	return strings.Join(parts, " ")
}

// plural appends "s" to the noun unless n is exactly 1.
func plural(noun string, n int) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
