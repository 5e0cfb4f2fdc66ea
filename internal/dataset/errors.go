package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationKind distinguishes why an upload was rejected.
type ValidationKind int

const (
	// MissingColumns: one or more required columns could not be resolved.
	MissingColumns ValidationKind = iota + 1
	// BadTimestamp: a date/time pair did not parse.
	BadTimestamp
)

func (k ValidationKind) String() string {
	switch k {
	case MissingColumns:
		return "MISSING_COLUMNS"
	case BadTimestamp:
		return "BAD_TIMESTAMP"
	default:
		return "UNKNOWN"
	}
}

// ValidationError is a terminal rejection of an upload. Nothing downstream
// (statistics, charts, export) runs after one.
type ValidationError struct {
	Kind    ValidationKind
	Columns []string // MissingColumns
	Row     int      // BadTimestamp, 1-based data row
	Value   string   // BadTimestamp, the combined "date time" text
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingColumns:
		return fmt.Sprintf("missing required columns: %s (expected Date, Time, Temperature, Humidity, CO2)", strings.Join(e.Columns, ", "))
	case BadTimestamp:
		return fmt.Sprintf("row %d: cannot combine date and time into a timestamp: %q", e.Row, e.Value)
	default:
		return "validation failed"
	}
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ParseError wraps any decoder failure (malformed CSV, unreadable workbook,
// empty input).
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("error reading file: %v", e.Err)
	}
	return fmt.Sprintf("error reading %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CoercionWarning records a value that failed numeric coercion and was
// imputed. It is never returned as an error.
type CoercionWarning struct {
	Column string `json:"column"`
	Row    int    `json:"row"`
	Value  string `json:"value"`
}
