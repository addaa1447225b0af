package schedule

import (
	"math"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string as a local calendar date pinned
// to noon. Pinning to noon keeps weekday and day-count math stable
// across DST transitions; parsing at midnight (or as UTC) shifts the
// apparent local date near day boundaries and corrupts weekday-based
// recurrence checks.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.Local), true
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// startOfWeek snaps a noon-pinned date to the most recent Sunday,
// keeping noon. Interval counting for weekly rules is week-aligned, so
// it must not depend on which weekday within the week the base date
// fell on.
func startOfWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// daysBetween counts whole calendar days from a to b. Rounding absorbs
// the odd hour a DST transition adds or removes.
func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}

func weeksBetween(a, b time.Time) int {
	return daysBetween(startOfWeek(a), startOfWeek(b)) / 7
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()*12 + int(b.Month())) - (a.Year()*12 + int(a.Month()))
}
