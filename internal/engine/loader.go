package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const utf8BOM = "\ufeff"

// --- 1. FIELD PARSERS ---

// parseYear parses "2000" -> 2000
func parseYear(s string) (int, error) {
	return strconv.Atoi(s)
}

// parseCount parses "3273363" -> 3273363, rejecting negatives
func parseCount(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errNegativeCount
	}
	return n, nil
}

// columnIndex maps each required column to its position in the header.
// Every missing column is reported at once.
func columnIndex(header []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		}
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	var missing []string
	idx := make(map[string]int, len(requiredColumns))
	for _, c := range requiredColumns {
		i, ok := pos[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		idx[c] = i
	}
	if len(missing) > 0 {
		return nil, &MalformedInputError{Missing: missing}
	}
	return idx, nil
}

// --- 2. MAIN LOADER ---

// Load reads a delimited table with a header row into a Table.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// A. Header
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MalformedInputError{Missing: append([]string(nil), requiredColumns...)}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}
	yearCol, catCol, countCol := idx[ColumnYear], idx[ColumnCategory], idx[ColumnCount]
	width := max(yearCol, catCol, countCol) + 1

	// B. Rows
	b := newTableBuilder(256)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if len(rec) < width {
			return nil, &ParseError{Line: line, Column: requiredColumns[0], Value: strings.Join(rec, ","), Err: errShortRow}
		}

		yearField := strings.TrimSpace(rec[yearCol])
		year, err := parseYear(yearField)
		if err != nil {
			return nil, &ParseError{Line: line, Column: ColumnYear, Value: yearField, Err: err}
		}

		countField := strings.TrimSpace(rec[countCol])
		count, err := parseCount(countField)
		if err != nil {
			return nil, &ParseError{Line: line, Column: ColumnCount, Value: countField, Err: err}
		}

		if err := b.add(year, strings.TrimSpace(rec[catCol]), count); err != nil {
			return nil, err
		}
	}

	return b.t, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	start := time.Now()
	logger.Debug("loading dataset", "path", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	logger.Debug("dataset loaded",
		"path", path,
		"rows", t.Len(),
		"categories", len(t.categoryDict),
		"elapsed", time.Since(start))
	return t, nil
}
