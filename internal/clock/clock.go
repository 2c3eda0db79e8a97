// Package clock formats wall-clock values for the display and reports.
package clock

import "time"

// TimeString renders t in the configured clock style.
func TimeString(t time.Time, twelveHour bool) string {
	if twelveHour {
		return t.Format("3:04:05 PM")
	}
	return t.Format("15:04:05")
}

// DateString renders the date line shown on session headers.
func DateString(t time.Time) string {
	return t.Format("Mon Jan 2 2006")
}

// Stamp renders the combined date and time.
func Stamp(t time.Time, twelveHour bool) string {
	return DateString(t) + " " + TimeString(t, twelveHour)
}
