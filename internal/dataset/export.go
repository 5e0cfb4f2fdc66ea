package dataset

import (
	"fmt"
	"io"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// ExportSheet is the worksheet name used by WriteXLSX.
const ExportSheet = "readings"

// WriteCSV writes every column of t, including the derived timestamp and
// imputed values, as UTF-8 CSV with a header row.
func WriteCSV(w io.Writer, t *Table) error {
	df := dataframe.LoadRecords(t.Records(),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return fmt.Errorf("build export frame: %w", df.Err)
	}
	if err := df.WriteCSV(w, dataframe.WriteHeader(true)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes t to a single-sheet workbook. Numeric columns become
// numeric cells; missing values are left blank.
func WriteXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	names := t.Columns()
	header := make([]interface{}, len(names))
	for i, n := range names {
		header[i] = n
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	cols := make([][]interface{}, len(names))
	for j, name := range names {
		if t.Numeric(name) {
			vals, _ := t.Floats(name)
			cells := make([]interface{}, len(vals))
			for i, v := range vals {
				if !math.IsNaN(v) {
					cells[i] = v
				}
			}
			cols[j] = cells
			continue
		}
		text, _ := t.Strings(name)
		cells := make([]interface{}, len(text))
		for i, s := range text {
			cells[i] = s
		}
		cols[j] = cells
	}

	for i := 0; i < t.Len(); i++ {
		row := make([]interface{}, len(names))
		for j := range names {
			row[j] = cols[j][i]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
