package analysis

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

// Stats is the describe() block for one numeric column. NaN values are
// excluded; with no values every statistic is NaN and Count is 0.
type Stats struct {
	Count  int
	Mean   float64
	Std    float64 // sample (n-1); NaN when Count < 2
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// ColumnStats pairs a column name with its statistics.
type ColumnStats struct {
	Column string
	Stats
}

// Summary is the derived metric set of a cleaned table.
type Summary struct {
	Rows       int
	Columns    []ColumnStats
	MeanCO2    float64
	Tier       Tier
	Start      time.Time
	End        time.Time
	TierCounts map[Tier]int
	Warnings   map[string]int // coercion failures per column
	Imputed    map[string]int // filled cells per column
}

// Describe computes count, mean, sample std, min, quartiles and max.
func Describe(vals []float64) Stats {
	clean := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	nan := math.NaN()
	s := Stats{Count: len(clean), Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	if len(clean) == 0 {
		return s
	}
	sort.Float64s(clean)
	s.Mean = stat.Mean(clean, nil)
	if len(clean) > 1 {
		s.Std = stat.StdDev(clean, nil)
	}
	s.Min = clean[0]
	s.Max = clean[len(clean)-1]
	s.Q1 = quantile(clean, 0.25)
	s.Median = quantile(clean, 0.5)
	s.Q3 = quantile(clean, 0.75)
	return s
}

// Summarize computes descriptive statistics for the value columns, the mean
// CO2 and its tier. It does not modify t and returns the same result on
// every call.
func Summarize(t *dataset.Table) Summary {
	s := Summary{
		Rows:       t.Len(),
		MeanCO2:    math.NaN(),
		TierCounts: map[Tier]int{},
		Warnings:   map[string]int{},
		Imputed:    t.Imputed(),
	}
	for _, col := range dataset.ValueColumns {
		vals, err := t.Floats(col)
		if err != nil {
			vals = nil
		}
		st := Describe(vals)
		s.Columns = append(s.Columns, ColumnStats{Column: col, Stats: st})
		if col == dataset.ColCO2 {
			s.MeanCO2 = st.Mean
			for _, v := range vals {
				s.TierCounts[Classify(v)]++
			}
		}
	}
	s.Tier = Classify(s.MeanCO2)

	for _, w := range t.Warnings() {
		s.Warnings[w.Column]++
	}
	for i, ts := range t.Timestamps() {
		if i == 0 || ts.Before(s.Start) {
			s.Start = ts
		}
		if i == 0 || ts.After(s.End) {
			s.End = ts
		}
	}
	return s
}

// Stat returns the statistics of column col.
func (s Summary) Stat(col string) (Stats, bool) {
	for _, c := range s.Columns {
		if c.Column == col {
			return c.Stats, true
		}
	}
	return Stats{}, false
}

// jsonFloat encodes NaN and infinities as null.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

type statsWire struct {
	Count  int       `json:"count"`
	Mean   jsonFloat `json:"mean"`
	Std    jsonFloat `json:"std"`
	Min    jsonFloat `json:"min"`
	Q1     jsonFloat `json:"q1"`
	Median jsonFloat `json:"median"`
	Q3     jsonFloat `json:"q3"`
	Max    jsonFloat `json:"max"`
}

func (s Stats) wire() statsWire {
	return statsWire{s.Count, jsonFloat(s.Mean), jsonFloat(s.Std), jsonFloat(s.Min), jsonFloat(s.Q1),
		jsonFloat(s.Median), jsonFloat(s.Q3), jsonFloat(s.Max)}
}

func (s Stats) MarshalJSON() ([]byte, error) { return json.Marshal(s.wire()) }

func (c ColumnStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column string `json:"column"`
		statsWire
	}{c.Column, c.Stats.wire()})
}

func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Rows       int            `json:"rows"`
		Columns    []ColumnStats  `json:"columns"`
		MeanCO2    jsonFloat      `json:"mean_co2"`
		Tier       Tier           `json:"tier"`
		Advice     string         `json:"advice"`
		Start      time.Time      `json:"start"`
		End        time.Time      `json:"end"`
		TierCounts map[Tier]int   `json:"tier_counts"`
		Warnings   map[string]int `json:"coercion_warnings"`
		Imputed    map[string]int `json:"imputed"`
	}{s.Rows, s.Columns, jsonFloat(s.MeanCO2), s.Tier, s.Tier.Advice(), s.Start, s.End,
		s.TierCounts, s.Warnings, s.Imputed})
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
