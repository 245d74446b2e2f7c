package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Required column names of the input table.
const (
	ColumnYear     = "Year"
	ColumnCategory = "Residents"
	ColumnCount    = "Count"
)

var requiredColumns = []string{ColumnYear, ColumnCategory, ColumnCount}

var (
	errNegativeCount = errors.New("count must not be negative")
	errShortRow      = errors.New("row has fewer fields than the header")
)

// MalformedInputError reports required columns that are absent from the input.
type MalformedInputError struct {
	Missing []string
}

func (e *MalformedInputError) Error() string {
	return "malformed input: missing required column(s): " + strings.Join(e.Missing, ", ")
}

// ParseError reports a row whose value could not be used.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DuplicateRecordError reports a second record for the same year and category.
// Joins over such input would be ambiguous, so it is rejected on load.
type DuplicateRecordError struct {
	Year     int
	Category string
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("duplicate record for year %d, category %q", e.Year, e.Category)
}

func formatInt(n int64) string { return strconv.FormatInt(n, 10) }
