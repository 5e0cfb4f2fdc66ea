package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/airq-cli/internal/dataset"
)

// Report is a markdown-friendly view of a cleaned table and its summary.
type Report struct {
	Name     string
	Summary  Summary
	Columns  []string
	Samples  [][]string
	Warnings []string
}

// maxListedWarnings caps per-cell coercion notes in the report.
const maxListedWarnings = 10

// NewReport assembles a report from a cleaned table. sampleRows of 0 omits
// the sample section; a negative value uses 5.
func NewReport(name string, t *dataset.Table, s Summary, sampleRows int) *Report {
	if sampleRows < 0 {
		sampleRows = 5
	}
	head := t.Head(sampleRows)
	r := &Report{Name: name, Summary: s, Columns: head[0], Samples: head[1:]}

	cols := make([]string, 0, len(s.Warnings))
	for c := range s.Warnings {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	for _, c := range cols {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %d value(s) could not be parsed as numbers and were replaced by the column mean", c, s.Warnings[c]))
	}
	for i, w := range t.Warnings() {
		if i == maxListedWarnings {
			r.Warnings = append(r.Warnings, fmt.Sprintf("... %d more unparsed value(s)", len(t.Warnings())-maxListedWarnings))
			break
		}
		r.Warnings = append(r.Warnings, fmt.Sprintf("row %d, %s: %q", w.Row, w.Column, w.Value))
	}
	for _, c := range s.Columns {
		if c.Count == 0 {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s has no valid values; statistics are undefined", c.Column))
		}
	}
	return r
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	s := r.Summary
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Columns)))
	if !s.Start.IsZero() {
		b.WriteString(fmt.Sprintf("Period: %s to %s\n", s.Start.Format("2006-01-02 15:04"), s.End.Format("2006-01-02 15:04")))
	}

	b.WriteString("\n[STATISTICS]\n")
	b.WriteString("| column | count | mean | std | min | 25% | 50% | 75% | max |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
	for _, c := range s.Columns {
		b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			c.Column, c.Count, num(c.Mean), num(c.Std), num(c.Min), num(c.Q1), num(c.Median), num(c.Q3), num(c.Max)))
	}
	if len(s.Imputed) > 0 {
		var parts []string
		for _, col := range dataset.ValueColumns {
			if n := s.Imputed[col]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s=%d", col, n))
			}
		}
		if len(parts) > 0 {
			b.WriteString(fmt.Sprintf("Imputed with column mean: %s\n", strings.Join(parts, ", ")))
		}
	}

	b.WriteString("\n[AIR QUALITY]\n")
	b.WriteString(fmt.Sprintf("Mean CO2: %s ppm\n", num(s.MeanCO2)))
	b.WriteString(fmt.Sprintf("Tier: %s (%s)\n", s.Tier, s.Tier.Advice()))
	if s.Rows > 0 {
		var parts []string
		for _, t := range Tiers {
			if n := s.TierCounts[t]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s %d (%.1f%%)", t, n, float64(n)*100/float64(s.Rows)))
			}
		}
		if len(parts) > 0 {
			b.WriteString(fmt.Sprintf("Readings by tier: %s\n", strings.Join(parts, ", ")))
		}
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| " + strings.Join(r.Columns, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(r.Columns)) + "\n")
		for _, row := range r.Samples {
			vals := make([]string, len(r.Columns))
			for i := range vals {
				if i < len(row) {
					vals[i] = safeVal(row[i])
				}
			}
			b.WriteString("| " + strings.Join(vals, " | ") + " |\n")
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// num formats a statistic with two decimals; NaN is "n/a".
func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

// safeVal makes a cell fit a Markdown table row, cutting it to 80 runes.
func safeVal(s string) string {
	s = strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
	if r := []rune(s); len(r) > 80 {
		s = string(r[:77]) + "..."
	}
	return s
}
