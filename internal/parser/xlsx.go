package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

// Parse reads the selected sheet into an all-string frame. If SheetName is
// empty and SheetIndex <= 0, it defaults to the first sheet.
func (xlsxParser) Parse(content []byte, opt Options) (dataframe.DataFrame, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	records := rectangular(rows)
	if len(records) < 2 {
		return dataframe.DataFrame{}, ErrEmpty
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("load sheet %q: %w", sheet, df.Err)
	}
	return df, nil
}

func pickSheet(sheets []string, opt Options) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found.\nAvailable sheets: %s", opt.SheetName, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))
	}
	return sheets[idx-1], nil
}

// rectangular pads or truncates rows to the header width and drops blank rows.
// GetRows omits trailing empty cells, so short rows are expected.
func rectangular(rows [][]string) [][]string {
	if len(rows) == 0 {
		return nil
	}
	width := len(rows[0])
	out := make([][]string, 0, len(rows))
	for i, row := range rows {
		if i > 0 && blank(row) {
			continue
		}
		rec := make([]string, width)
		copy(rec, row)
		out = append(out, rec)
	}
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
