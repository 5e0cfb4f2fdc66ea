package dataset

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is an ordered set of sensor readings. It is produced by Ingest and
// replaced, never mutated, by Clean.
type Table struct {
	frame      dataframe.DataFrame
	timestamps []time.Time
	warnings   []CoercionWarning
	imputed    map[string]int
	cleaned    bool

	// delimiter the upload was decoded with; 0 for workbooks.
	delimiter rune
}

func newTable(df dataframe.DataFrame) *Table {
	return &Table{frame: df}
}

// Len returns the number of readings.
func (t *Table) Len() int { return t.frame.Nrow() }

// Columns returns the column names in order.
func (t *Table) Columns() []string { return t.frame.Names() }

// Has reports whether the table carries column name.
func (t *Table) Has(name string) bool {
	for _, n := range t.frame.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Cleaned reports whether the table went through Clean.
func (t *Table) Cleaned() bool { return t.cleaned }

// Numeric reports whether column name holds floats.
func (t *Table) Numeric(name string) bool {
	return t.Has(name) && t.frame.Col(name).Type() == series.Float
}

// Strings returns the raw text of a column. Missing cells are "".
func (t *Table) Strings(name string) ([]string, error) {
	if !t.Has(name) {
		return nil, fmt.Errorf("unknown column %q", name)
	}
	return cellText(t.frame.Col(name)), nil
}

// Floats returns the values of a numeric column. Missing values are NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	if !t.Numeric(name) {
		return nil, fmt.Errorf("column %q is not numeric", name)
	}
	return t.frame.Col(name).Float(), nil
}

// Timestamps returns the derived timestamp of every row, or nil before Clean.
func (t *Table) Timestamps() []time.Time {
	if t.timestamps == nil {
		return nil
	}
	out := make([]time.Time, len(t.timestamps))
	copy(out, t.timestamps)
	return out
}

// Warnings lists the cells that failed numeric coercion during Clean.
func (t *Table) Warnings() []CoercionWarning {
	out := make([]CoercionWarning, len(t.warnings))
	copy(out, t.warnings)
	return out
}

// Imputed returns, per value column, how many cells Clean had to fill.
func (t *Table) Imputed() map[string]int {
	out := make(map[string]int, len(t.imputed))
	for k, v := range t.imputed {
		out[k] = v
	}
	return out
}

// Records renders the table as text with the header as the first record.
// Floats use the shortest exact form and missing values are empty.
func (t *Table) Records() [][]string {
	return t.records(t.Len())
}

// Head returns the header plus at most n data rows.
func (t *Table) Head(n int) [][]string {
	if n < 0 {
		n = 0
	}
	if n > t.Len() {
		n = t.Len()
	}
	return t.records(n)
}

func (t *Table) records(n int) [][]string {
	names := t.frame.Names()
	cols := make([][]string, len(names))
	for j, name := range names {
		cols[j] = cellText(t.frame.Col(name))
	}
	out := make([][]string, 0, n+1)
	out = append(out, append([]string(nil), names...))
	for i := 0; i < n; i++ {
		row := make([]string, len(names))
		for j := range names {
			row[j] = cols[j][i]
		}
		out = append(out, row)
	}
	return out
}

func cellText(s series.Series) []string {
	if s.Type() == series.Float {
		vals := s.Float()
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = FormatNumber(v)
		}
		return out
	}
	out := s.Records()
	for i := range out {
		if s.Elem(i).IsNA() {
			out[i] = ""
		}
	}
	return out
}
