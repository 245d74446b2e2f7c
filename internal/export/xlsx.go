// Package export writes the dashboard views to files: a workbook with one
// sheet per view and PNG charts.
package export

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"residents/internal/models"
)

// Sheet names, in workbook order.
const (
	SheetOverview     = "Overview"
	SheetTrends       = "Population Trends"
	SheetGenderRatios = "Gender Ratios"
	SheetGrowth       = "Growth Rate"
)

// NA is written wherever a derived value is undefined.
const NA = "N/A"

// WriteWorkbook saves data as an xlsx workbook at path.
func WriteWorkbook(data *models.DashboardData, path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetOverview); err != nil {
		return err
	}
	for _, name := range []string{SheetTrends, SheetGenderRatios, SheetGrowth} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	steps := []struct {
		sheet string
		write func(*sheetWriter)
	}{
		{SheetOverview, func(w *sheetWriter) { writeOverview(w, data.Overview) }},
		{SheetTrends, func(w *sheetWriter) { writeTrends(w, data.Trends) }},
		{SheetGenderRatios, func(w *sheetWriter) { writeGenderRatios(w, data.GenderRatios) }},
		{SheetGrowth, func(w *sheetWriter) { writeGrowth(w, data.Growth) }},
	}
	for _, s := range steps {
		w := &sheetWriter{f: f, sheet: s.sheet, row: 1}
		s.write(w)
		if w.err != nil {
			return fmt.Errorf("write sheet %s: %w", s.sheet, w.err)
		}
		if err := f.SetColWidth(s.sheet, "A", "F", 18); err != nil {
			return err
		}
		logger.Debug("sheet written", "sheet", s.sheet, "rows", w.row-1)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	logger.Info("workbook written", "path", path)
	return nil
}

// sheetWriter appends rows to one sheet and keeps the first error.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) append(values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = err
		return
	}
	w.row++
}

func (w *sheetWriter) blank() {
	w.row++
}

func cellValue(v *float64) interface{} {
	if v == nil {
		return NA
	}
	return *v
}

func writeOverview(w *sheetWriter, ov models.Overview) {
	w.append("Records", ov.Records)
	w.append("Categories", ov.Categories)
	w.append("First year", ov.FirstYear)
	w.append("Last year", ov.LastYear)
	w.blank()

	w.append("Statistic", "Year", "Count")
	stats := []struct {
		name        string
		year, count *float64
	}{
		{"mean", ov.Year.Mean, ov.Count.Mean},
		{"std", ov.Year.Std, ov.Count.Std},
		{"min", ov.Year.Min, ov.Count.Min},
		{"25%", ov.Year.Q25, ov.Count.Q25},
		{"50%", ov.Year.Q50, ov.Count.Q50},
		{"75%", ov.Year.Q75, ov.Count.Q75},
		{"max", ov.Year.Max, ov.Count.Max},
	}
	w.append("count", ov.Year.Count, ov.Count.Count)
	for _, s := range stats {
		w.append(s.name, cellValue(s.year), cellValue(s.count))
	}
	w.blank()

	w.append("Year", "Residents", "Count")
	for _, r := range ov.Preview {
		w.append(r.Year, r.Category, r.Count)
	}
}

func writeTrends(w *sheetWriter, tr models.Trends) {
	total := make(map[int]int64, len(tr.Total))
	for _, p := range tr.Total {
		total[p.Year] = p.Count
	}

	w.append("Year", "Total Residents", "Male Residents", "Female Residents")
	for _, p := range tr.Comparison {
		t, ok := total[p.Year]
		if !ok {
			w.append(p.Year, NA, p.Male, p.Female)
			continue
		}
		w.append(p.Year, t, p.Male, p.Female)
	}
}

func writeGenderRatios(w *sheetWriter, ratios []models.EthnicRatio) {
	w.append("Ethnic group", "Year", "Female", "Male", "Female/Male ratio")
	for _, er := range ratios {
		for _, r := range er.Rows {
			w.append(er.Group, r.Year, r.Numerator, r.Denominator, cellValue(r.Ratio))
		}
	}
	w.blank()

	w.append("Ethnic group", "Years", "Mean ratio", "Highest", "Lowest")
	for _, er := range ratios {
		w.append(er.Group, er.Summary.Count, cellValue(er.Summary.Mean), extreme(er.Summary.Max), extreme(er.Summary.Min))
	}
}

func writeGrowth(w *sheetWriter, g models.Growth) {
	w.append("Category", g.Category)
	w.blank()
	w.append("Year", "Count", "Previous count", "Growth rate (%)")
	for _, r := range g.Rows {
		w.append(r.Year, r.Count, r.PreviousCount, cellValue(r.GrowthRate))
	}
	w.blank()
	w.append("Mean growth (%)", cellValue(g.Summary.Mean))
	w.append("Highest", extreme(g.Summary.Max))
	w.append("Lowest", extreme(g.Summary.Min))
}

// extreme renders "value (year)".
func extreme(e *models.Extreme) string {
	if e == nil || e.Value == nil {
		return NA
	}
	return strconv.FormatFloat(*e.Value, 'f', -1, 64) + " (" + strconv.Itoa(e.Year) + ")"
}
