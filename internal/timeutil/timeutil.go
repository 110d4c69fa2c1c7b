// Package timeutil formats times the way the dashboard presents them:
// relative labels, coarse check-in buckets, and the fixed-offset wall clock.
package timeutil

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
)

// Ago returns a relative label for t ("2 hours ago", "3 days from now").
func Ago(t time.Time) string {
	return humanize.Time(t)
}

// When buckets a past timestamp into the coarse labels used for check-ins.
func When(now, t time.Time) string {
	age := now.Sub(t)
	switch {
	case age < 2*time.Hour:
		return "recently"
	case age < 6*time.Hour:
		return "a few hours ago"
	case age < 12*time.Hour:
		return "today"
	case age < 48*time.Hour:
		return "yesterday"
	case age < 72*time.Hour:
		return "this week"
	default:
		return "long ago"
	}
}

// LocalClock renders now shifted by a fixed hour offset as a 12-hour wall
// clock string ("04:05 pm"). The offset is hand-configured per deployment;
// it is not derived from the tracked location.
func LocalClock(now time.Time, offsetHours int) string {
	return now.UTC().Add(time.Duration(offsetHours) * time.Hour).Format("03:04 pm")
}

// DurationHours returns the span between start and end in hours, rounded to
// one decimal.
func DurationHours(start, end time.Time) float64 {
	return math.Round(end.Sub(start).Hours()*10) / 10
}
