package dataset

import (
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is how the derived timestamp column is written.
const TimestampLayout = "2006-01-02T15:04:05"

// DateOrder says how an all-numeric d/m/y or m/d/y date is read.
type DateOrder int

const (
	MonthFirst DateOrder = iota
	DayFirst
)

// isoLayouts have no day/month ambiguity. Fractional seconds are accepted
// after any seconds field without a dedicated layout.
var isoLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02 3:04:05 PM",
	"2006-01-02 3:04 PM",
	"2006-01-02T15:04:05",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
}

// Single-digit month and day fields also match zero-padded input, so one
// layout per separator and year width covers both.
var monthFirstLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1-2-2006 15:04:05",
	"1-2-2006 15:04",
	"1/2/06 15:04:05",
	"1/2/06 15:04",
	"1-2-06 15:04:05",
	"1-2-06 15:04",
}

var dayFirstLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2/1/06 15:04:05",
	"2/1/06 15:04",
	"2-1-06 15:04:05",
	"2-1-06 15:04",
}

// DetectDateOrder scans dates for the first one that can only be read one
// way (a leading field above 12 means day-first, a middle field above 12
// means month-first). Without such a date the order is MonthFirst.
func DetectDateOrder(dates []string) DateOrder {
	for _, d := range dates {
		parts := strings.FieldsFunc(strings.TrimSpace(d), func(r rune) bool { return r == '/' || r == '-' })
		if len(parts) != 3 || len(parts[0]) > 2 || len(parts[1]) > 2 {
			continue
		}
		a, errA := strconv.Atoi(parts[0])
		b, errB := strconv.Atoi(parts[1])
		if errA != nil || errB != nil {
			continue
		}
		switch {
		case a > 12 && b <= 12:
			return DayFirst
		case b > 12 && a <= 12:
			return MonthFirst
		}
	}
	return MonthFirst
}

// ParseTimestamp combines a date and a time-of-day. If layout is set only
// that layout is tried. Otherwise unambiguous layouts are tried first and
// numeric dates follow order.
func ParseTimestamp(date, clock, layout string, order DateOrder, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	raw := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	if layout != "" {
		t, err := time.ParseInLocation(layout, raw, loc)
		return t, err == nil
	}
	numeric := monthFirstLayouts
	if order == DayFirst {
		numeric = dayFirstLayouts
	}
	for _, set := range [][]string{isoLayouts, numeric} {
		for _, l := range set {
			if t, err := time.ParseInLocation(l, raw, loc); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
