package chart

import (
	"bytes"
	"errors"
	"testing"

	"github.com/KaramelBytes/airq-cli/internal/analysis"
	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

const readings = `date,time,temperature,humidity,co2
2024-01-01,08:00,20,40,600
2024-01-01,12:00,22,42,900
2024-01-02,08:00,21,43,1300
2024-01-02,12:00,23,44,1400
`

func table(t *testing.T, raw string) (*dataset.Table, analysis.Summary) {
	t.Helper()
	tbl, err := dataset.Ingest([]byte(raw), dataset.Options{})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	tbl, err = dataset.Clean(tbl, dataset.Options{})
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	return tbl, analysis.Summarize(tbl)
}

func TestRenderAllKinds(t *testing.T) {
	tbl, sum := table(t, readings)
	reqs := map[Kind]Request{
		Line:    {},
		Scatter: {X: dataset.ColTemperature, Y: dataset.ColHumidity},
		Bar:     {Y: dataset.ColTemperature},
		Pie:     {},
	}
	for kind, req := range reqs {
		var buf bytes.Buffer
		if err := Render(&buf, kind, tbl, sum, req); err != nil {
			t.Fatalf("%s: %v", kind, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
			t.Fatalf("%s: output is not a PNG", kind)
		}
	}
}

func TestRenderFlatLine(t *testing.T) {
	tbl, sum := table(t, "date,time,temperature,humidity,co2\n2024-01-01,08:00,20,40,600\n2024-01-01,09:00,20,40,600\n")
	var buf bytes.Buffer
	if err := Render(&buf, Line, tbl, sum, Request{Y: dataset.ColTemperature}); err != nil {
		t.Fatalf("flat line: %v", err)
	}
}

func TestRenderNotEnoughData(t *testing.T) {
	tbl, sum := table(t, "date,time,temperature,humidity,co2\n2024-01-01,08:00,20,40,600\n")
	var buf bytes.Buffer
	if err := Render(&buf, Line, tbl, sum, Request{}); !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("line with one point: %v", err)
	}

	empty, emptySum := table(t, "date,time,temperature,humidity,co2\n2024-01-01,08:00,20,40,\n2024-01-01,09:00,21,41,\n")
	if err := Render(&buf, Pie, empty, emptySum, Request{}); !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("pie without co2: %v", err)
	}
	if err := Render(&buf, Bar, empty, emptySum, Request{}); !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("bar without co2: %v", err)
	}
}

func TestRenderRejectsBadInput(t *testing.T) {
	tbl, sum := table(t, readings)
	var buf bytes.Buffer
	if err := Render(&buf, Line, tbl, sum, Request{Y: "date"}); !errors.Is(err, analysis.ErrUnknownColumn) {
		t.Fatalf("non-numeric y: %v", err)
	}
	if err := Render(&buf, Kind("radar"), tbl, sum, Request{}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("unknown kind: %v", err)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" Scatter "); err != nil || k != Scatter {
		t.Fatalf("ParseKind = %q, %v", k, err)
	}
	if _, err := ParseKind("radar"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}
