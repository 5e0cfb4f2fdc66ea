package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/airq-cli/internal/analysis"
	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

// Kind selects a chart type.
type Kind string

const (
	Line    Kind = "line"
	Scatter Kind = "scatter"
	Bar     Kind = "bar"
	Pie     Kind = "pie"
)

// Kinds lists every supported chart type.
var Kinds = []Kind{Line, Scatter, Bar, Pie}

var (
	// ErrNotEnoughData is returned when the selected data cannot be drawn,
	// e.g. fewer than two points or an all-zero pie.
	ErrNotEnoughData = errors.New("not enough data to draw chart")
	// ErrUnknownKind is returned for an unsupported chart type.
	ErrUnknownKind = errors.New("unknown chart kind")
)

// Request describes what to plot. Empty fields take defaults: X is the
// timestamp, Y is co2, and the image is 1024x480.
type Request struct {
	X      string
	Y      string
	Width  int
	Height int
}

func (r Request) withDefaults() Request {
	if r.X == "" {
		r.X = dataset.ColTimestamp
	}
	if r.Y == "" {
		r.Y = dataset.ColCO2
	}
	if r.Width <= 0 {
		r.Width = 1024
	}
	if r.Height <= 0 {
		r.Height = 480
	}
	return r
}

// ParseKind resolves a chart kind by name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

var tierColors = map[analysis.Tier]drawing.Color{
	analysis.TierGood:     gochart.ColorGreen,
	analysis.TierModerate: gochart.ColorOrange,
	analysis.TierPoor:     gochart.ColorRed,
}

// Render draws a PNG of the requested kind to w. Line and scatter plot Y
// against X; bar plots the daily mean of Y; pie shows readings per CO2 tier
// taken from s.
func Render(w io.Writer, kind Kind, t *dataset.Table, s analysis.Summary, req Request) error {
	req = req.withDefaults()
	switch kind {
	case Line, Scatter:
		return renderXY(w, kind, t, req)
	case Bar:
		return renderBar(w, t, req)
	case Pie:
		return renderPie(w, s, req)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func renderXY(w io.Writer, kind Kind, t *dataset.Table, req Request) error {
	cs, err := analysis.Series(t, req.X, req.Y)
	if err != nil {
		return err
	}
	if cs.Len() < 2 {
		return ErrNotEnoughData
	}

	style := gochart.Style{StrokeColor: gochart.ColorBlue, StrokeWidth: 2}
	if kind == Scatter {
		style = gochart.Style{StrokeWidth: gochart.Disabled, DotWidth: 4, DotColor: gochart.ColorBlue}
	}
	name := fmt.Sprintf("%s vs %s", req.Y, req.X)

	var series gochart.Series
	xAxis := gochart.XAxis{Name: req.X}
	if cs.TimeAxis() {
		if !spreadTimes(cs) {
			return ErrNotEnoughData
		}
		series = gochart.TimeSeries{Name: name, Style: style, XValues: cs.Times, YValues: cs.YValues}
		xAxis.ValueFormatter = gochart.TimeValueFormatterWithFormat("01-02 15:04")
	} else {
		if lo, hi := bounds(cs.XValues); lo == hi {
			return ErrNotEnoughData
		}
		series = gochart.ContinuousSeries{Name: name, Style: style, XValues: cs.XValues, YValues: cs.YValues}
	}

	graph := gochart.Chart{
		Title:      name,
		Width:      req.Width,
		Height:     req.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      gochart.YAxis{Name: req.Y, Range: paddedRange(cs.YValues)},
		Series:     []gochart.Series{series},
	}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", kind, err)
	}
	return nil
}

func renderBar(w io.Writer, t *dataset.Table, req Request) error {
	days, err := analysis.DailyMeans(t, req.Y)
	if err != nil {
		return err
	}
	if len(days) == 0 {
		return ErrNotEnoughData
	}
	bars := make([]gochart.Value, len(days))
	means := make([]float64, len(days))
	for i, d := range days {
		bars[i] = gochart.Value{Label: d.Date, Value: d.Mean}
		means[i] = d.Mean
	}
	lo, hi := bounds(means)
	lo, hi = math.Min(lo, 0), math.Max(hi, 0)
	if hi == lo {
		hi = lo + 1
	}
	graph := gochart.BarChart{
		Title:        fmt.Sprintf("Daily mean %s", req.Y),
		Width:        req.Width,
		Height:       req.Height,
		BarWidth:     barWidth(req.Width, len(bars)),
		Background:   gochart.Style{Padding: gochart.Box{Top: 40}},
		YAxis:        gochart.YAxis{Range: &gochart.ContinuousRange{Min: lo, Max: hi * 1.1}},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

func renderPie(w io.Writer, s analysis.Summary, req Request) error {
	var values []gochart.Value
	for _, tier := range analysis.Tiers {
		n := s.TierCounts[tier]
		if n == 0 {
			continue
		}
		col := tierColors[tier]
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s (%d)", tier, n),
			Value: float64(n),
			Style: gochart.Style{FillColor: col, StrokeColor: gochart.ColorWhite},
		})
	}
	if len(values) == 0 {
		return ErrNotEnoughData
	}
	size := min(req.Width, req.Height)
	graph := gochart.PieChart{
		Title:  "Readings by CO2 tier",
		Width:  size,
		Height: size,
		Values: values,
	}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render pie chart: %w", err)
	}
	return nil
}

func spreadTimes(cs analysis.ChartSeries) bool {
	first := cs.Times[0]
	for _, ts := range cs.Times[1:] {
		if !ts.Equal(first) {
			return true
		}
	}
	return false
}

func bounds(vals []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// paddedRange keeps a flat series drawable by widening a zero range.
func paddedRange(vals []float64) gochart.Range {
	lo, hi := bounds(vals)
	if hi > lo {
		return nil
	}
	pad := math.Max(math.Abs(lo)*0.05, 1)
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func barWidth(width, n int) int {
	bw := width / (2 * n)
	switch {
	case bw < 8:
		return 8
	case bw > 80:
		return 80
	}
	return bw
}
