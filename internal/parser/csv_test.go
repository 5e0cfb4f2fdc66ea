package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestSniffDelimiter(t *testing.T) {
	cases := map[string]rune{
		"date,time,co2\n1,2,3\n":     ',',
		"date;time;co2\n1;2;3\n":     ';',
		"date\ttime\tco2\n1\t2\t3\n": '\t',
		"single\nvalue\n":            ',',
		"a;b,c;d\n":                  ';',
		"date|time|co2\n1|2|3\n":     '|',
	}
	for in, want := range cases {
		if got := sniffDelimiter([]byte(in)); got != want {
			t.Fatalf("sniffDelimiter(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCSVParseStripsBOMAndKeepsStrings(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date;CO2\n2024-01-01;1.200,5\n2024-01-02;n/a\n")...)
	df, err := csvParser{}.Parse(in, Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if names := df.Names(); names[0] != "Date" {
		t.Fatalf("BOM not stripped: %q", names[0])
	}
	vals := df.Col("CO2").Records()
	if vals[0] != "1.200,5" || vals[1] != "n/a" {
		t.Fatalf("expected raw strings, got %v", vals)
	}
}

func TestCSVParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   \n", "date,time,co2\n"} {
		if _, err := (csvParser{}).Parse([]byte(in), Options{}); !errors.Is(err, ErrEmpty) {
			t.Fatalf("Parse(%q): expected ErrEmpty, got %v", in, err)
		}
	}
}

func TestCSVParsePadsShortRows(t *testing.T) {
	in := "date,time,temperature,humidity,co2\n2024-01-01,10:00,20,40,500\n2024-01-01,10:05,21,41\n"
	df, err := csvParser{}.Parse([]byte(in), Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if df.Nrow() != 2 || df.Ncol() != 5 {
		t.Fatalf("unexpected dims %dx%d", df.Nrow(), df.Ncol())
	}
	if got := df.Col("co2").Records(); got[0] != "500" || got[1] != "" {
		t.Fatalf("short row not padded with an empty cell: %q", got)
	}
}

func TestCSVParseLongRowsFail(t *testing.T) {
	_, err := csvParser{}.Parse([]byte("a,b\n1,2\n1,2,3\n"), Options{})
	if err == nil || errors.Is(err, ErrEmpty) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("error should name the line: %v", err)
	}
}
