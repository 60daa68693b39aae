package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToPeriod(t *testing.T) {
	assert.Equal(t, "2025-01", ToPeriod(time.Date(2025, time.January, 31, 23, 59, 0, 0, time.Local)))
	assert.Equal(t, "2025-12", ToPeriod(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "0999-07", ToPeriod(time.Date(999, time.July, 15, 12, 0, 0, 0, time.Local)))
}

func TestToPeriodSortable(t *testing.T) {
	earlier := ToPeriod(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.Local))
	later := ToPeriod(time.Date(2025, time.October, 1, 0, 0, 0, 0, time.Local))
	assert.Less(t, earlier, later)

	nextYear := ToPeriod(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local))
	assert.Less(t, later, nextYear)
}

func TestParse(t *testing.T) {
	year, month, err := Parse("2025-03")
	assert.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 3, month)

	_, _, err = Parse("2025-13")
	assert.Error(t, err)

	_, _, err = Parse("garbage")
	assert.Error(t, err)
}

func TestDueDatePinnedToNoon(t *testing.T) {
	due := DueDate(2025, time.February, 5)
	assert.Equal(t, 2025, due.Year())
	assert.Equal(t, time.February, due.Month())
	assert.Equal(t, 5, due.Day())
	assert.Equal(t, 12, due.Hour())
}

func TestMonthBoundaryIsMidnight(t *testing.T) {
	boundary := MonthBoundary(time.Date(2025, time.June, 10, 9, 30, 0, 0, time.Local))
	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.Local), boundary)

	// A payment at 08:00 on the 1st sits inside the month it opens.
	firstMorning := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.Local)
	assert.False(t, firstMorning.Before(MonthBoundary(firstMorning)))
}

func TestAddMonthsRollsOverYear(t *testing.T) {
	dec := time.Date(2025, time.December, 1, 12, 0, 0, 0, time.Local)
	jan := AddMonths(dec, 1)
	assert.Equal(t, 2026, jan.Year())
	assert.Equal(t, time.January, jan.Month())

	march := AddMonths(dec, 3)
	assert.Equal(t, "2026-03", ToPeriod(march))
}

func TestIsPastIsStrict(t *testing.T) {
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.Local)
	assert.True(t, IsPast(now.Add(-time.Second), now))
	assert.False(t, IsPast(now, now))
	assert.False(t, IsPast(now.Add(time.Second), now))
}
