package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/airq-cli/internal/parser"
	"github.com/xuri/excelize/v2"
)

func TestParseTSV(t *testing.T) {
	content := []byte("Date\tTime\tCO2 (ppm)\n2024-01-01\t08:00:00\t640\n2024-01-01\t09:00:00\t710\n")
	if d := parser.Delimiter("office.tsv", content, parser.Options{}); d != '\t' {
		t.Fatalf("Delimiter = %q, want tab", d)
	}
	df, err := parser.Parse("office.tsv", content, parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if df.Ncol() != 3 || df.Nrow() != 2 {
		t.Fatalf("unexpected dims %dx%d", df.Nrow(), df.Ncol())
	}
	if got := df.Names()[2]; got != "CO2 (ppm)" {
		t.Fatalf("header not preserved: %q", got)
	}
}

func TestDelimiter(t *testing.T) {
	body := []byte("\xEF\xBB\xBFdate;time;co2\n2024-01-01;10:00;500\n")
	cases := []struct {
		name string
		opt  parser.Options
		want rune
	}{
		{"office.csv", parser.Options{}, ';'},
		{"office.csv", parser.Options{Delimiter: '|'}, '|'},
		{"office.tsv", parser.Options{}, '\t'},
		{"office.xlsx", parser.Options{Delimiter: ','}, 0},
	}
	for _, c := range cases {
		if got := parser.Delimiter(c.name, body, c.opt); got != c.want {
			t.Errorf("Delimiter(%s, %q) = %q, want %q", c.name, c.opt.Delimiter, got, c.want)
		}
	}
}

func TestParseUnknownExtensionFallsBackToCSV(t *testing.T) {
	df, err := parser.Parse("upload", []byte("a,b\n1,2\n"), parser.Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if df.Nrow() != 1 {
		t.Fatalf("expected 1 row, got %d", df.Nrow())
	}
}

func TestParseRejectsBinaryFormats(t *testing.T) {
	_, err := parser.Parse("legacy.xls", []byte{0xD0, 0xCF}, parser.Options{})
	if !errors.Is(err, parser.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestParseXLSXSheetSelection(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := f.NewSheet("lab"); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	rows := [][]interface{}{
		{"Date", "Time", "Temperature (°C)", "Humidity (%)", "CO2 (ppm)"},
		{"2024-03-01", "10:00:00", 21.5, 40, 900},
		{"2024-03-01", "11:00:00", 22},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow("lab", cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	df, err := parser.Parse("readings.xlsx", buf.Bytes(), parser.Options{SheetName: "LAB"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if df.Nrow() != 2 || df.Ncol() != 5 {
		t.Fatalf("unexpected dims %dx%d", df.Nrow(), df.Ncol())
	}
	// short rows are padded to the header width
	if got := df.Col("CO2 (ppm)").Records()[1]; got != "" {
		t.Fatalf("expected padded empty cell, got %q", got)
	}

	_, err = parser.Parse("readings.xlsx", buf.Bytes(), parser.Options{SheetName: "missing"})
	if err == nil || !strings.Contains(err.Error(), "Available sheets") {
		t.Fatalf("expected sheet listing error, got %v", err)
	}
}
