package sessions

import (
	"fmt"
	"strings"
	"time"
)

// Upstream timestamps are local wall-clock times without an offset. They are
// parsed into UTC so that formatting and hour checks see the wall clock
// unchanged.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	time.RFC3339,
}

var clockLayouts = []string{
	"15:04",
	"15:04:05",
}

const (
	dateLayout     = "2006-01-02"
	monthLabel     = "January 2006"
	dayLabel       = "Monday 2 January"
	afternoonStart = 12
)

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == time.RFC3339 {
				return wallClock(t), nil
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// parseClock reads "HH:mm" (or a full timestamp) and returns the time on the
// given date.
func parseClock(date time.Time, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
		}
	}
	if t, err := parseTimestamp(s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func isMorning(t time.Time) bool {
	return t.Hour() < afternoonStart
}

func formatClock(t time.Time) string {
	if t.Minute() == 0 {
		return t.Format("3pm")
	}
	return t.Format("3:04pm")
}

// FormatStartEndTime renders a range such as "10am to 11am" or
// "1:30pm to 3pm".
func FormatStartEndTime(start, end time.Time) string {
	return formatClock(start) + " to " + formatClock(end)
}
