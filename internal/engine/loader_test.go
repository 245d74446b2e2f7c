package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"residents/internal/testutil"
)

func TestLoadFile(t *testing.T) {
	csvContent := []byte(`Year,Residents,Count
2000,Total Residents,3273363
2000,Total Male Residents,1634667
2000,Total Female Residents,1638696
2001,Total Residents,3325902
2001,"Other Ethnic Groups (Females)",23841
`)

	// 1. Write a temp dataset
	path := filepath.Join(t.TempDir(), "Singapore_Residents.csv")
	require.NoError(t, os.WriteFile(path, csvContent, 0o644))

	// 2. Run Loader
	store, err := LoadFile(path, testutil.NewTestLogger(t))
	require.NoError(t, err)

	// 3. Assertions
	require.Equal(t, 5, store.Len())
	assert.Equal(t, Record{Year: 2000, Category: "Total Residents", Count: 3273363}, store.Record(0))
	assert.Equal(t, Record{Year: 2001, Category: "Other Ethnic Groups (Females)", Count: 23841}, store.Record(4))

	// Dictionary Checks
	assert.Equal(t, []string{
		"Total Residents",
		"Total Male Residents",
		"Total Female Residents",
		"Other Ethnic Groups (Females)",
	}, store.Categories())

	first, last, ok := store.YearRange()
	assert.True(t, ok)
	assert.Equal(t, 2000, first)
	assert.Equal(t, 2001, last)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_ColumnOrderAndExtras(t *testing.T) {
	in := "\ufeffCount , Notes, Residents ,Year\n100, x ,Total Residents,2000\n\n110,y,Total Residents,2001\n"

	store, err := Load(strings.NewReader(in))
	require.NoError(t, err)

	require.Equal(t, 2, store.Len())
	assert.Equal(t, Record{Year: 2001, Category: "Total Residents", Count: 110}, store.Record(1))
}

func TestLoad_MissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		missing []string
	}{
		{name: "no count", input: "Year,Residents\n2000,Total Residents\n", missing: []string{"Count"}},
		{name: "renamed", input: "year,Category,Count\n", missing: []string{"Year", "Residents"}},
		{name: "empty input", input: "", missing: []string{"Year", "Residents", "Count"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			var mie *MalformedInputError
			require.ErrorAs(t, err, &mie)
			assert.Equal(t, tt.missing, mie.Missing)
			for _, c := range tt.missing {
				assert.Contains(t, err.Error(), c)
			}
		})
	}
}

func TestLoad_BadValues(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		column string
		line   int
	}{
		{name: "year", input: "Year,Residents,Count\n2000,A,1\nabc,A,1\n", column: ColumnYear, line: 3},
		{name: "count", input: "Year,Residents,Count\n2000,A,1.5\n", column: ColumnCount, line: 2},
		{name: "negative", input: "Year,Residents,Count\n2000,A,-4\n", column: ColumnCount, line: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.column, pe.Column)
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestLoad_ShortRow(t *testing.T) {
	_, err := Load(strings.NewReader("Year,Residents,Count\n2000,Total Residents\n"))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, errShortRow)
}

func TestLoad_DuplicateRecord(t *testing.T) {
	in := "Year,Residents,Count\n2000,Total Residents,1\n2001,Total Residents,2\n2000,Total Residents,3\n"

	_, err := Load(strings.NewReader(in))
	var de *DuplicateRecordError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, 2000, de.Year)
	assert.Equal(t, "Total Residents", de.Category)
}

func TestFieldParsers(t *testing.T) {
	y, err := parseYear("2018")
	require.NoError(t, err)
	assert.Equal(t, 2018, y)

	c, err := parseCount("3994283")
	require.NoError(t, err)
	assert.Equal(t, int64(3994283), c)

	_, err = parseCount("-1")
	assert.ErrorIs(t, err, errNegativeCount)
}
