package orders

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// ParseClock converts an HH:MM string into minutes since midnight.
func ParseClock(value string) (int, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// formatClock renders minutes since midnight back to HH:MM, wrapping
// across midnight.
func formatClock(minutes int) string {
	minutes %= minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
