package internal

import (
	"time"
)

// IsActiveHour reports whether the given hour (0-23) falls into the
// configured operating window. Windows may wrap across midnight, e.g.
// start 20, end 8 is active from 20:00 through 07:59.
func IsActiveHour(hour, startHour, endHour int) bool {
	if startHour <= endHour {
		return startHour <= hour && hour < endHour
	}

	return hour >= startHour || hour < endHour
}

// SleepDuration computes how long to sleep between poll cycles. The refresh
// interval is clipped so that the sleep never overshoots the start of the
// next operating window, and is at least one second.
func SleepDuration(now time.Time, refresh time.Duration, startHour, endHour int) time.Duration {
	nextStart := NextWindowStart(now, startHour, endHour)

	timeToWait := nextStart.Sub(now)
	sleep := min(refresh, timeToWait)

	if sleep < time.Second {
		return time.Second
	}

	return sleep
}

// NextWindowStart returns the wall-clock time at which the operating window
// opens next. Once today's start hour has passed the next opening is always
// tomorrow, whether or not the window wraps across midnight.
func NextWindowStart(now time.Time, startHour, _ int) time.Time {
	nextStart := time.Date(now.Year(), now.Month(), now.Day(), startHour, 0, 0, 0, now.Location())

	if now.Hour() >= startHour {
		nextStart = nextStart.AddDate(0, 0, 1)
	}

	return nextStart
}
