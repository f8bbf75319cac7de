package domain

import "time"

const NotificationTimeLayout = "02-01-2006 15:04"

// StartOfHour truncates t to the start of its hour as seen in loc. Truncation
// is done on wall-clock fields so zones with non-hour offsets still land on
// :00 locally.
func StartOfHour(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, loc)
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func FormatSlot(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(NotificationTimeLayout)
}
