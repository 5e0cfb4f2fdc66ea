package analysis

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

// ErrUnknownColumn is returned when a chart axis names a column that is
// absent or not numeric.
var ErrUnknownColumn = errors.New("unknown or non-numeric column")

// ChartSeries is an x/y pairing ready for plotting. Exactly one of Times or
// XValues is set. Rows with a missing value on either axis are skipped.
type ChartSeries struct {
	X       string      `json:"x"`
	Y       string      `json:"y"`
	Times   []time.Time `json:"times,omitempty"`
	XValues []float64   `json:"x_values,omitempty"`
	YValues []float64   `json:"y_values"`
}

// TimeAxis reports whether X is the derived timestamp.
func (c ChartSeries) TimeAxis() bool { return c.X == dataset.ColTimestamp }

// Len returns the number of points.
func (c ChartSeries) Len() int { return len(c.YValues) }

// Series pairs column x with column y. x may be "timestamp" or any numeric
// column; y must be numeric.
func Series(t *dataset.Table, x, y string) (ChartSeries, error) {
	ys, err := t.Floats(y)
	if err != nil {
		return ChartSeries{}, fmt.Errorf("%w: %q", ErrUnknownColumn, y)
	}
	out := ChartSeries{X: x, Y: y, YValues: []float64{}}
	if x == dataset.ColTimestamp {
		ts := t.Timestamps()
		if ts == nil {
			return ChartSeries{}, fmt.Errorf("%w: %q", ErrUnknownColumn, x)
		}
		for i, v := range ys {
			if math.IsNaN(v) {
				continue
			}
			out.Times = append(out.Times, ts[i])
			out.YValues = append(out.YValues, v)
		}
		return out, nil
	}
	xs, err := t.Floats(x)
	if err != nil {
		return ChartSeries{}, fmt.Errorf("%w: %q", ErrUnknownColumn, x)
	}
	for i, v := range ys {
		if math.IsNaN(v) || math.IsNaN(xs[i]) {
			continue
		}
		out.XValues = append(out.XValues, xs[i])
		out.YValues = append(out.YValues, v)
	}
	return out, nil
}

// DailyMean is the average of one column over a calendar day.
type DailyMean struct {
	Date  string  `json:"date"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// DailyMeans groups column y by the calendar date of each reading, in order
// of first appearance. Days without a valid value are omitted.
func DailyMeans(t *dataset.Table, y string) ([]DailyMean, error) {
	ys, err := t.Floats(y)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, y)
	}
	ts := t.Timestamps()
	if ts == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, dataset.ColTimestamp)
	}
	idx := map[string]int{}
	var sums []float64
	var out []DailyMean
	for i, v := range ys {
		if math.IsNaN(v) {
			continue
		}
		day := ts[i].Format("2006-01-02")
		j, ok := idx[day]
		if !ok {
			j = len(out)
			idx[day] = j
			out = append(out, DailyMean{Date: day})
			sums = append(sums, 0)
		}
		sums[j] += v
		out[j].Count++
	}
	for j := range out {
		out[j].Mean = sums[j] / float64(out[j].Count)
	}
	return out, nil
}
