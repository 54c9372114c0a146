package ctdf

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ToMinutes converts an HH:MM clock time into minutes since midnight.
// An empty value is 0 and malformed parts contribute 0, no range checks are done.
func ToMinutes(clock string) int {
	if clock == "" {
		return 0
	}

	parts := strings.SplitN(clock, ":", 3)

	hours, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	minutes := 0
	if len(parts) > 1 {
		minutes, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}

	return hours*60 + minutes
}

// ParseClock is the strict version of ToMinutes used when validating user input
func ParseClock(clock string) (int, bool) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, false
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}

	return hours*60 + minutes, true
}

func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay

	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DiffMinutes returns actual - scheduled in minutes, or false if either side is missing
func DiffMinutes(scheduled string, actual string) (int, bool) {
	if scheduled == "" || actual == "" {
		return 0, false
	}

	return ToMinutes(actual) - ToMinutes(scheduled), true
}

// ComputeDelay is DiffMinutes with differences of more than 12 hours treated as
// crossing midnight, so 23:50 -> 00:05 is 15 minutes late rather than 1425 early.
func ComputeDelay(scheduled string, actual string) (int, bool) {
	delay, ok := DiffMinutes(scheduled, actual)
	if !ok {
		return 0, false
	}

	if delay > minutesPerDay/2 {
		delay -= minutesPerDay
	} else if delay < -minutesPerDay/2 {
		delay += minutesPerDay
	}

	return delay, true
}
