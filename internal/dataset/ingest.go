package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/KaramelBytes/airq-cli/internal/parser"
)

// Options controls decoding and cleaning of an upload.
type Options struct {
	// Filename selects the decoder by extension. Empty means CSV.
	Filename string
	// Delimiter for CSV; 0 sniffs it from the header line.
	Delimiter rune
	// SheetName or SheetIndex (1-based) selects an XLSX sheet.
	SheetName  string
	SheetIndex int
	// DecimalSeparator and ThousandsSeparator; 0 auto-detects per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// DateLayout forces a single Go time layout for "date time".
	DateLayout string
	// Location for timestamps. Nil means UTC.
	Location *time.Location
}

// Ingest decodes raw bytes, normalizes headers and checks that every required
// column is present. Columns are renamed to their canonical names; extra
// columns are kept under their normalized names.
func Ingest(raw []byte, opt Options) (*Table, error) {
	popt := parser.Options{
		Delimiter:  opt.Delimiter,
		SheetName:  opt.SheetName,
		SheetIndex: opt.SheetIndex,
	}
	df, err := parser.Parse(opt.Filename, raw, popt)
	if err != nil {
		return nil, &ParseError{Source: opt.Filename, Err: err}
	}
	t, err := fromFrame(df)
	if err != nil {
		return nil, err
	}
	t.delimiter = parser.Delimiter(opt.Filename, raw, popt)
	return t, nil
}

// IngestFile reads path and ingests it. The file name drives decoder choice
// unless opt.Filename is set.
func IngestFile(path string, opt Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if opt.Filename == "" {
		opt.Filename = filepath.Base(path)
	}
	return Ingest(data, opt)
}

func fromFrame(df dataframe.DataFrame) (*Table, error) {
	if df.Nrow() == 0 {
		return nil, &ParseError{Err: parser.ErrEmpty}
	}
	names := df.Names()
	renamed := make([]string, len(names))
	found := map[string]bool{}
	for i, raw := range names {
		if c, ok := CanonicalName(raw); ok && !found[c] {
			found[c] = true
			renamed[i] = c
			continue
		}
		renamed[i] = NormalizeName(raw)
	}

	var missing []string
	for _, req := range Required {
		if !found[req] {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Kind: MissingColumns, Columns: missing}
	}

	renamed = dedupe(renamed)
	cols := make([]series.Series, len(names))
	for i, name := range names {
		s := df.Col(name)
		s.Name = renamed[i]
		cols[i] = s
	}
	out := dataframe.New(cols...)
	if out.Err != nil {
		return nil, &ParseError{Err: out.Err}
	}
	return newTable(out), nil
}

// dedupe suffixes repeated names with _2, _3, ... keeping the first as is.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	counts := map[string]int{}
	out := make([]string, len(names))
	for i, n := range names {
		counts[n]++
		if counts[n] == 1 {
			out[i] = n
			continue
		}
		k := counts[n]
		cand := n + "_" + strconv.Itoa(k)
		for seen[cand] {
			k++
			cand = n + "_" + strconv.Itoa(k)
		}
		seen[cand] = true
		out[i] = cand
	}
	return out
}
