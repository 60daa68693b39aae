// Package period holds the billing-period helpers shared by invoice
// generation, status computation and the dashboard. A period is a calendar
// month rendered as "YYYY-MM", which sorts lexicographically in period order.
package period

import (
	"fmt"
	"time"
)

// ToPeriod renders the local year-month of t as "YYYY-MM".
func ToPeriod(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// Parse splits a "YYYY-MM" label into its year and 1-based month.
func Parse(p string) (year int, month int, err error) {
	if _, err = fmt.Sscanf(p, "%4d-%2d", &year, &month); err != nil {
		return 0, 0, fmt.Errorf("invalid period %q: %w", p, err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid period %q: month out of range", p)
	}
	return year, month, nil
}

// DueDate builds the due date for a billing month. The instant is pinned to
// local noon so that timezone-boundary midnight rounding can never shift the
// calendar day. dueDay is caller-validated to 1-28.
func DueDate(year int, month time.Month, dueDay int) time.Time {
	return time.Date(year, month, dueDay, 12, 0, 0, 0, time.Local)
}

// MonthStart returns the first day of t's month at local noon. It anchors
// due-date math; for aggregation cutoffs use MonthBoundary.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 12, 0, 0, 0, time.Local)
}

// MonthBoundary returns the first instant of t's month, local midnight.
// Month-to-date aggregations cut off here so nothing received on the morning
// of the 1st falls outside the month.
func MonthBoundary(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.Local)
}

// AddMonths moves t forward n calendar months. time.Date normalizes
// out-of-range months, so December + 1 lands in January of the next year.
func AddMonths(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month()+time.Month(n), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// IsPast reports whether t is strictly before now.
func IsPast(t, now time.Time) bool {
	return t.Before(now)
}
