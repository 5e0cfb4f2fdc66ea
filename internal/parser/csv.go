package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

// Parse decodes delimited text. Every column is loaded as a string series;
// numeric coercion happens later so bad cells can be imputed instead of
// failing the whole column. Rows shorter than the header are padded with
// empty cells; rows longer than the header are an error.
func (csvParser) Parse(content []byte, opt Options) (dataframe.DataFrame, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if len(bytes.TrimSpace(content)) == 0 {
		return dataframe.DataFrame{}, ErrEmpty
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(content)
	}
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("decode csv: %w", err)
	}
	if len(records) < 2 {
		return dataframe.DataFrame{}, ErrEmpty
	}
	width := len(records[0])
	for i, rec := range records[1:] {
		switch {
		case len(rec) > width:
			return dataframe.DataFrame{}, fmt.Errorf("decode csv: line %d has %d fields, header has %d", i+2, len(rec), width)
		case len(rec) < width:
			padded := make([]string, width)
			copy(padded, rec)
			records[i+1] = padded
		}
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("decode csv: %w", df.Err)
	}
	return df, nil
}

// sniffDelimiter picks the most frequent candidate on the header line.
func sniffDelimiter(content []byte) rune {
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	if !sc.Scan() {
		return ','
	}
	header := sc.Text()
	best, bestN := ',', 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(header, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}
