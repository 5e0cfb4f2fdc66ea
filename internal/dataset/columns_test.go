package dataset

import (
	"testing"
	"time"
)

func TestCanonicalName(t *testing.T) {
	cases := map[string]string{
		"Temperature(°C)":      ColTemperature,
		"temp":                 ColTemperature,
		"Humidity (%)":         ColHumidity,
		"RH":                   ColHumidity,
		"CO₂ (ppm)":            ColCO2,
		"co2 [ppm]":            ColCO2,
		"Carbon Dioxide (ppm)": ColCO2,
		" Day ":                ColDate,
	}
	for in, want := range cases {
		got, ok := CanonicalName(in)
		if !ok || got != want {
			t.Fatalf("CanonicalName(%q) = %q,%v want %q", in, got, ok, want)
		}
	}
	for _, in := range []string{"pressure (hPa)", "location", "co"} {
		if got, ok := CanonicalName(in); ok {
			t.Fatalf("CanonicalName(%q) resolved to %q", in, got)
		}
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		dec  rune
		thou rune
		want float64
		ok   bool
	}{
		{"21.5", 0, 0, 21.5, true},
		{"21,5", 0, 0, 21.5, true},
		{"1,234.5", 0, 0, 1234.5, true},
		{"1.234,5", 0, 0, 1234.5, true},
		{"45%", 0, 0, 45, true},
		{"1.250", ',', '.', 1250, true},
		{"", 0, 0, 0, false},
		{"n/a", 0, 0, 0, false},
		{"NaN", 0, 0, 0, false},
		{"Inf", 0, 0, 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in, c.dec, c.thou)
		if ok != c.ok || (ok && got != c.want) {
			t.Fatalf("ParseNumber(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	want := time.Date(2024, 1, 1, 13, 45, 0, 0, time.UTC)
	pairs := [][2]string{
		{"2024-01-01", "13:45:00"},
		{"2024-01-01", "13:45"},
		{"2024/01/01", "13:45:00"},
		{"2024-01-01", "1:45 PM"},
		{"2024-01-01", "13:45:00.250"},
		{"01.01.2024", "13:45"},
		{"1/1/24", "13:45"},
	}
	for _, p := range pairs {
		got, ok := ParseTimestamp(p[0], p[1], "", MonthFirst, nil)
		if !ok || !got.Equal(want) {
			t.Fatalf("ParseTimestamp(%q, %q) = %v,%v", p[0], p[1], got, ok)
		}
	}
	if _, ok := ParseTimestamp("2024-01-01", "13:45:00", "02.01.2006 15:04:05", MonthFirst, nil); ok {
		t.Fatalf("forced layout should reject non-matching input")
	}
	if _, ok := ParseTimestamp("2024-13-45", "10:00", "", MonthFirst, nil); ok {
		t.Fatalf("invalid date accepted")
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(0.1 + 0.2); got != "0.30000000000000004" {
		t.Fatalf("FormatNumber = %q", got)
	}
	if got := FormatNumber(1300); got != "1300" {
		t.Fatalf("FormatNumber = %q", got)
	}
}

func TestParseTimestampDateOrder(t *testing.T) {
	cases := []struct {
		date  string
		order DateOrder
		month time.Month
		day   int
	}{
		{"03/04/2024", MonthFirst, time.March, 4},
		{"3/4/2024", MonthFirst, time.March, 4},
		{"03/04/2024", DayFirst, time.April, 3},
		{"3-4-24", DayFirst, time.April, 3},
		{"2024-03-04", DayFirst, time.March, 4},
	}
	for _, c := range cases {
		got, ok := ParseTimestamp(c.date, "10:00:00", "", c.order, nil)
		if !ok || got.Month() != c.month || got.Day() != c.day {
			t.Errorf("ParseTimestamp(%q, order %d) = %v,%v want %s %d", c.date, c.order, got, ok, c.month, c.day)
		}
	}
	if _, ok := ParseTimestamp("01/13/2024", "10:00", "", DayFirst, nil); ok {
		t.Error("month 13 accepted in day-first order")
	}
}

func TestDetectDateOrder(t *testing.T) {
	cases := []struct {
		dates []string
		want  DateOrder
	}{
		{[]string{"03/04/2024", "3/4/2024", "01/13/2024"}, MonthFirst},
		{[]string{"03/04/2024", "25/04/2024"}, DayFirst},
		{[]string{"2024-04-25", "2024-04-26"}, MonthFirst},
		{[]string{"03/04/2024", "04/03/2024"}, MonthFirst},
		{[]string{"", "n/a", "13-05-24"}, DayFirst},
	}
	for _, c := range cases {
		if got := DetectDateOrder(c.dates); got != c.want {
			t.Errorf("DetectDateOrder(%q) = %d, want %d", c.dates, got, c.want)
		}
	}
}
