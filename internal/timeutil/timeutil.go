package timeutil

import (
	"fmt"
	"time"
)

const week = 7 * 24 * time.Hour

// Range is a half-open time window [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// FormatDuration renders a duration as "3h 05m". Sub-minute durations
// render as "0h 00m"; negative durations are clamped to zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%dh %02dm", h, m)
}

// Hours returns the duration as fractional hours.
func Hours(d time.Duration) float64 {
	if d < 0 {
		d = 0
	}
	return d.Hours()
}

// FormatHours renders fractional hours with two decimals, e.g. "7.25h".
func FormatHours(d time.Duration) string {
	return fmt.Sprintf("%.2fh", Hours(d))
}

// MonthRange returns the calendar month containing now in loc: the first
// instant of the month up to the first instant of the next month.
func MonthRange(now time.Time, loc *time.Location) Range {
	now = now.In(loc)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	return Range{Start: start, End: start.AddDate(0, 1, 0)}
}

// WeekRange returns the Sunday-aligned week containing now in loc: the most
// recent Sunday 00:00 up to the following Sunday 00:00.
func WeekRange(now time.Time, loc *time.Location) Range {
	now = now.In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	start := midnight.AddDate(0, 0, -int(now.Weekday()))
	return Range{Start: start, End: start.AddDate(0, 0, 7)}
}

// WeekRangeOffset returns WeekRange shifted back by offset whole weeks.
// The shift is fixed 7-day arithmetic from the current week's boundaries,
// never re-derived per offset, so consecutive offsets always tile exactly
// even across DST transitions. A negative offset is treated as zero.
func WeekRangeOffset(now time.Time, loc *time.Location, offset int) Range {
	if offset < 0 {
		offset = 0
	}
	r := WeekRange(now, loc)
	shift := time.Duration(offset) * week
	return Range{Start: r.Start.Add(-shift), End: r.End.Add(-shift)}
}
