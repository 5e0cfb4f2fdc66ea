package dataset

import (
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// Clean derives the timestamp column (one day/month order per table, see
// DetectDateOrder), coerces the value columns to numbers,
// imputes missing values with the column mean and forces humidity and CO2
// to be non-negative. The input table is left untouched.
//
// An unparseable date/time pair aborts with a BadTimestamp ValidationError.
// Coercion failures are not errors; they are recorded on the result.
func Clean(t *Table, opt Options) (*Table, error) {
	dates, err := t.Strings(ColDate)
	if err != nil {
		return nil, &ValidationError{Kind: MissingColumns, Columns: []string{ColDate}}
	}
	clocks, err := t.Strings(ColTime)
	if err != nil {
		return nil, &ValidationError{Kind: MissingColumns, Columns: []string{ColTime}}
	}

	order := DetectDateOrder(dates)
	stamps := make([]time.Time, t.Len())
	isoStamps := make([]string, t.Len())
	for i := range dates {
		ts, ok := ParseTimestamp(dates[i], clocks[i], opt.DateLayout, order, opt.Location)
		if !ok {
			return nil, &ValidationError{
				Kind:  BadTimestamp,
				Row:   i + 1,
				Value: strings.TrimSpace(dates[i] + " " + clocks[i]),
			}
		}
		stamps[i] = ts
		isoStamps[i] = ts.Format(TimestampLayout)
	}

	df := t.frame.Copy()
	var warnings []CoercionWarning
	imputed := make(map[string]int, len(ValueColumns))
	for _, col := range ValueColumns {
		raw, err := t.Strings(col)
		if err != nil {
			return nil, &ValidationError{Kind: MissingColumns, Columns: []string{col}}
		}
		vals := make([]float64, len(raw))
		for i, cell := range raw {
			v, ok := parseValue(cell, opt, t.delimiter)
			if !ok {
				v = math.NaN()
				imputed[col]++
				if strings.TrimSpace(cell) != "" {
					warnings = append(warnings, CoercionWarning{Column: col, Row: i + 1, Value: cell})
				}
			}
			vals[i] = v
		}
		_, vals = Impute(vals)
		if col == ColHumidity || col == ColCO2 {
			for i, v := range vals {
				vals[i] = math.Abs(v)
			}
		}
		df = df.Mutate(series.New(vals, series.Float, col))
	}
	df = df.Mutate(series.New(isoStamps, series.String, ColTimestamp))
	if df.Err != nil {
		return nil, &ParseError{Err: df.Err}
	}

	return &Table{
		frame:      df,
		timestamps: stamps,
		warnings:   warnings,
		imputed:    imputed,
		cleaned:    true,
		delimiter:  t.delimiter,
	}, nil
}

// Impute replaces NaN entries with the mean of the finite ones and returns
// that mean. When nothing is finite the mean is NaN and vals come back
// unchanged. The input slice is not modified.
func Impute(vals []float64) (mean float64, filled []float64) {
	valid := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	filled = make([]float64, len(vals))
	copy(filled, vals)
	if len(valid) == 0 {
		return math.NaN(), filled
	}
	mean = stat.Mean(valid, nil)
	for i, v := range filled {
		if math.IsNaN(v) {
			filled[i] = mean
		}
	}
	return mean, filled
}
