package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	cfgpkg "github.com/KaramelBytes/airq-cli/internal/config"
	"github.com/KaramelBytes/airq-cli/internal/dataset"
	"github.com/KaramelBytes/airq-cli/internal/utils"
)

// parseFlags are the decoding flags shared by analyze, analyze-batch and export.
type parseFlags struct {
	delimiter  string
	decimal    string
	thousands  string
	dateLayout string
	sheetName  string
	sheetIndex int
}

func (p *parseFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&p.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (sniffed if omitted)")
	fs.StringVar(&p.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	fs.StringVar(&p.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	fs.StringVar(&p.dateLayout, "date-layout", "", "Go time layout for \"date time\", e.g. '02/01/2006 15:04'")
	fs.StringVar(&p.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	fs.IntVar(&p.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// options merges config defaults with the flags. Flags win.
func (p *parseFlags) options() (dataset.Options, error) {
	opt, err := configOptions()
	if err != nil {
		return opt, err
	}
	if p.delimiter != "" {
		switch p.delimiter {
		case ",", ";", "|":
			opt.Delimiter = rune(p.delimiter[0])
		case "\t", "tab":
			opt.Delimiter = '\t'
		default:
			return opt, fmt.Errorf("unsupported --delimiter: %s", p.delimiter)
		}
	}
	switch strings.ToLower(strings.TrimSpace(p.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", p.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(p.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", p.thousands)
	}
	if opt.DecimalSeparator != 0 && opt.DecimalSeparator == opt.ThousandsSeparator {
		return opt, fmt.Errorf("--decimal and --thousands must differ")
	}
	if p.dateLayout != "" {
		opt.DateLayout = p.dateLayout
	}
	opt.SheetName = p.sheetName
	opt.SheetIndex = p.sheetIndex
	return opt, nil
}

// configOptions turns the loaded config into ingest defaults.
func configOptions() (dataset.Options, error) {
	c := cfg
	if c == nil {
		c = &cfgpkg.Global{Timezone: "UTC"}
	}
	loc, err := c.Location()
	if err != nil {
		return dataset.Options{}, err
	}
	return dataset.Options{
		Delimiter:  c.DelimiterRune(),
		DateLayout: c.DateLayout,
		Location:   loc,
	}, nil
}

// expandInputs resolves globs to a sorted, de-duplicated file list. Arguments
// that match nothing are kept as literal paths when they exist.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// writeExport writes the cleaned table to path, choosing CSV or XLSX by
// extension.
func writeExport(path string, t *dataset.Table) error {
	var write func(io.Writer, *dataset.Table) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = dataset.WriteCSV
	case ".xlsx":
		write = dataset.WriteXLSX
	default:
		return fmt.Errorf("unsupported export format %q (use .csv or .xlsx)", filepath.Ext(path))
	}
	var buf bytes.Buffer
	if err := write(&buf, t); err != nil {
		return fmt.Errorf("export %s: %w", filepath.Base(path), err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
