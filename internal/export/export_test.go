package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"residents/internal/engine"
	"residents/internal/models"
	"residents/internal/testutil"
)

func sampleData(t *testing.T) *models.DashboardData {
	t.Helper()
	tbl, err := engine.NewTable([]engine.Record{
		{Year: 2000, Category: "Total Residents", Count: 100},
		{Year: 2001, Category: "Total Residents", Count: 110},
		{Year: 2000, Category: "Total Male Residents", Count: 49},
		{Year: 2000, Category: "Total Female Residents", Count: 51},
		{Year: 2001, Category: "Total Male Residents", Count: 54},
		{Year: 2001, Category: "Total Female Residents", Count: 56},
		{Year: 2000, Category: "Total Male Malays", Count: 0},
		{Year: 2000, Category: "Total Female Malays", Count: 7},
		{Year: 2000, Category: "Total Male Chinese", Count: 40},
		{Year: 2000, Category: "Total Female Chinese", Count: 42},
	})
	require.NoError(t, err)
	return tbl.Aggregate(engine.DefaultViewOptions())
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "residents.xlsx")
	require.NoError(t, WriteWorkbook(sampleData(t), path, testutil.NewTestLogger(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetOverview, SheetTrends, SheetGenderRatios, SheetGrowth}, f.GetSheetList())

	rows, err := f.GetRows(SheetTrends)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Year", "Total Residents", "Male Residents", "Female Residents"}, rows[0])
	assert.Equal(t, []string{"2001", "110", "54", "56"}, rows[2])

	rows, err = f.GetRows(SheetGenderRatios)
	require.NoError(t, err)
	assert.Equal(t, []string{"Malays", "2000", "7", "0", NA}, rows[1])
	assert.Equal(t, []string{"Chinese", "2000", "42", "40", "1.05"}, rows[2])

	rows, err = f.GetRows(SheetGrowth)
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Total Residents"}, rows[0])
	assert.Equal(t, []string{"2001", "110", "100", "10"}, rows[3])
}

func TestWriteWorkbook_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "residents.xlsx")
	err := WriteWorkbook(sampleData(t), path, nil)
	assert.Error(t, err)
}

func TestWriteCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := WriteCharts(sampleData(t), dir, testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, name := range []string{ChartTrends, ChartGenderRatios, ChartGrowth} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}

func TestWriteCharts_EmptyData(t *testing.T) {
	tbl, err := engine.NewTable(nil)
	require.NoError(t, err)

	paths, err := WriteCharts(tbl.Aggregate(engine.DefaultViewOptions()), t.TempDir(), nil)
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}

func TestExtreme(t *testing.T) {
	v := 1.25
	assert.Equal(t, "1.25 (2003)", extreme(&models.Extreme{Year: 2003, Value: &v}))
	assert.Equal(t, NA, extreme(nil))
}
