package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// commaGrouped matches integers grouped in thousands with commas, e.g. 1,250.
var commaGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+$`)

// parseValue coerces one cell of an upload. With both separators on auto, a
// comma-grouped integer is read as thousands unless the file is ';' or tab
// delimited, where a lone comma is a decimal comma.
func parseValue(cell string, opt Options, delimiter rune) (float64, bool) {
	if opt.DecimalSeparator == 0 && opt.ThousandsSeparator == 0 &&
		delimiter != ';' && delimiter != '\t' &&
		commaGrouped.MatchString(strings.TrimSpace(cell)) {
		return ParseNumber(cell, '.', ',')
	}
	return ParseNumber(cell, opt.DecimalSeparator, opt.ThousandsSeparator)
}

// ParseNumber coerces a cell to a float. dec and thou select the decimal and
// thousands separators; 0 means auto-detect per value. Empty, non-numeric and
// non-finite cells report false.
func ParseNumber(s string, dec, thou rune) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0:
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatNumber renders a float with the shortest exact representation; NaN
// renders empty so exports stay re-ingestable.
func FormatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
