package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"residents/internal/models"
)

const dataset = `Year,Residents,Count
2000,Total Residents,100
2001,Total Residents,110
2000,Total Male Residents,49
2000,Total Female Residents,51
2001,Total Male Residents,54
2001,Total Female Residents,56
2000,Total Male Malays,0
2000,Total Female Malays,7
2000,Total Male Chinese,40
2000,Total Female Chinese,42
`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "residents.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the root command and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReport_TrendsCSV(t *testing.T) {
	path := writeDataset(t, dataset)

	out, _, err := run(t, "report", "trends", "--data", path, "-o", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Year,Total,Male,Female")
	assert.Contains(t, out, "2000,100,49,51")
	assert.Contains(t, out, "2001,110,54,56")
}

func TestReport_RatiosJSON(t *testing.T) {
	path := writeDataset(t, dataset)

	out, _, err := run(t, "report", "ratios", "--data", path, "--output", "json")
	require.NoError(t, err)

	var ratios []models.EthnicRatio
	require.NoError(t, json.Unmarshal([]byte(out), &ratios))
	require.Len(t, ratios, 4)

	assert.Equal(t, "Malays", ratios[0].Group)
	require.Len(t, ratios[0].Rows, 1)
	assert.Nil(t, ratios[0].Rows[0].Ratio)

	require.Len(t, ratios[1].Rows, 1)
	assert.Equal(t, 1.05, *ratios[1].Rows[0].Ratio)
}

func TestReport_RatioPrecisionFlag(t *testing.T) {
	path := writeDataset(t, dataset)

	out, _, err := run(t, "report", "ratios", "--data", path, "-o", "json", "--ratio-precision", "1")
	require.NoError(t, err)

	var ratios []models.EthnicRatio
	require.NoError(t, json.Unmarshal([]byte(out), &ratios))
	assert.Equal(t, 1.1, *ratios[1].Rows[0].Ratio)
}

func TestReport_TableMarksUndefined(t *testing.T) {
	path := writeDataset(t, dataset)

	out, _, err := run(t, "report", "ratios", "--data", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Gender Ratio: Malays")
	assert.Contains(t, out, na)
}

func TestReport_Markdown(t *testing.T) {
	path := writeDataset(t, dataset)

	out, _, err := run(t, "report", "growth", "--data", path, "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "## Growth Rate: Total Residents")
	assert.Contains(t, out, "## Growth Summary")
}

func TestReport_AllViews(t *testing.T) {
	path := writeDataset(t, dataset)

	out, _, err := run(t, "report", "--data", path, "-o", "json")
	require.NoError(t, err)

	var data models.DashboardData
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, 10, data.Overview.Records)
	assert.Len(t, data.Trends.Comparison, 2)
	assert.Equal(t, "Total Residents", data.Growth.Category)
}

func TestReport_EmptyResultWarns(t *testing.T) {
	path := writeDataset(t, "Year,Residents,Count\n")

	_, stderr, err := run(t, "report", "growth", "--data", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "no rows matched")
}

func TestReport_Errors(t *testing.T) {
	path := writeDataset(t, dataset)

	_, _, err := run(t, "report", "nope", "--data", path)
	assert.Error(t, err)

	_, _, err = run(t, "report", "--data", filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = run(t, "report", "--data", path, "-o", "yaml")
	assert.ErrorContains(t, err, "output must be")
}

func TestExport(t *testing.T) {
	path := writeDataset(t, dataset)
	dir := t.TempDir()

	xlsx := filepath.Join(dir, "out.xlsx")
	out, _, err := run(t, "export", "xlsx", "--data", path, "--out", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, xlsx)
	assert.FileExists(t, xlsx)

	charts := filepath.Join(dir, "charts")
	_, _, err = run(t, "export", "charts", "--data", path, "--dir", charts)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(charts, "growth_rate.png"))
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "residents v"+Version)
}
