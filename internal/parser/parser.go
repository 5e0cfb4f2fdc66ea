package parser

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// Options controls how raw bytes are decoded into a frame.
type Options struct {
	// Delimiter for CSV. If 0, sniffed from the header line among ',', ';', '\t', '|'.
	Delimiter rune
	// SheetName selects an XLSX sheet; SheetIndex (1-based) is used when empty.
	SheetName  string
	SheetIndex int
}

// Parser decodes one tabular format into an all-string frame.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte, opt Options) (dataframe.DataFrame, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// Parse selects a parser based on filename and decodes content. Unknown or
// missing extensions fall back to CSV, since browser uploads often lose them.
func Parse(filename string, content []byte, opt Options) (dataframe.DataFrame, error) {
	if strings.HasSuffix(strings.ToLower(filename), ".tsv") && opt.Delimiter == 0 {
		opt.Delimiter = '\t'
	}
	for _, p := range registry {
		if p.CanParse(filename) {
			return p.Parse(content, opt)
		}
	}
	if ext := filepath.Ext(filename); isBinaryExt(ext) {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}
	return csvParser{}.Parse(content, opt)
}

// Delimiter reports the field separator Parse uses for content: the explicit
// one, tab for .tsv, or the sniffed one. Workbooks report 0.
func Delimiter(filename string, content []byte, opt Options) rune {
	if (xlsxParser{}).CanParse(filename) {
		return 0
	}
	if opt.Delimiter != 0 {
		return opt.Delimiter
	}
	if strings.HasSuffix(strings.ToLower(filename), ".tsv") {
		return '\t'
	}
	return sniffDelimiter(bytes.TrimPrefix(content, utf8BOM))
}

func isBinaryExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".xls", ".docx", ".pdf", ".zip", ".ods":
		return true
	}
	return false
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}

var (
	// ErrUnsupported indicates a format is not supported.
	ErrUnsupported = errors.New("unsupported tabular format")
	// ErrEmpty indicates the input has no header or no data rows.
	ErrEmpty = errors.New("no data rows")
)
