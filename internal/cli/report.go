package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"residents/internal/models"
)

var reportViews = []string{"overview", "trends", "ratios", "growth"}

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report [overview|trends|ratios|growth]",
		Short: "Print dashboard views",
		Long: `Print one dashboard view, or all of them when no view is named.

Undefined values, such as a ratio over a zero male count, print as N/A.`,
		Example: `  # Every view as terminal tables
  residents report

  # Gender ratios as markdown
  residents report ratios -o markdown

  # Growth of another category as JSON
  residents report growth --growth-category "Total Chinese" -o json`,
		ValidArgs: reportViews,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, cfg, err := loadTable(cmd.Context())
			if err != nil {
				return err
			}
			data := t.Aggregate(viewOptions(cfg))

			views := reportViews
			if len(args) == 1 {
				views = args
			}

			if cfg.Output == "json" {
				if len(views) == 1 {
					return writeJSON(cmd.OutOrStdout(), viewModel(data, views[0]))
				}
				return writeJSON(cmd.OutOrStdout(), data)
			}

			var sections []section
			for _, v := range views {
				sections = append(sections, viewSections(data, v)...)
			}
			return newRenderer(cmd.OutOrStdout(), cfg.Output, GetLogger(cmd.Context())).render(sections)
		},
	}
}

func viewModel(data *models.DashboardData, view string) any {
	switch view {
	case "overview":
		return data.Overview
	case "trends":
		return data.Trends
	case "ratios":
		return data.GenderRatios
	default:
		return data.Growth
	}
}

func viewSections(data *models.DashboardData, view string) []section {
	switch view {
	case "overview":
		return overviewSections(data.Overview)
	case "trends":
		return []section{trendSection(data.Trends)}
	case "ratios":
		return ratioSections(data.GenderRatios)
	default:
		return growthSections(data.Growth)
	}
}

func overviewSections(ov models.Overview) []section {
	info := section{
		title:   "dataset overview",
		columns: []string{"Field", "Value"},
		rows: [][]string{
			{"Records", strconv.Itoa(ov.Records)},
			{"Categories", strconv.Itoa(ov.Categories)},
			{"First year", strconv.Itoa(ov.FirstYear)},
			{"Last year", strconv.Itoa(ov.LastYear)},
		},
	}

	stats := section{
		title:   "column statistics",
		columns: []string{"Statistic", "Year", "Count"},
		rows: [][]string{
			{"count", strconv.Itoa(ov.Year.Count), strconv.Itoa(ov.Count.Count)},
			{"mean", fmtFloat(ov.Year.Mean), fmtFloat(ov.Count.Mean)},
			{"std", fmtFloat(ov.Year.Std), fmtFloat(ov.Count.Std)},
			{"min", fmtFloat(ov.Year.Min), fmtFloat(ov.Count.Min)},
			{"25%", fmtFloat(ov.Year.Q25), fmtFloat(ov.Count.Q25)},
			{"50%", fmtFloat(ov.Year.Q50), fmtFloat(ov.Count.Q50)},
			{"75%", fmtFloat(ov.Year.Q75), fmtFloat(ov.Count.Q75)},
			{"max", fmtFloat(ov.Year.Max), fmtFloat(ov.Count.Max)},
		},
	}

	preview := section{title: "preview", columns: []string{"Year", "Residents", "Count"}}
	for _, r := range ov.Preview {
		preview.rows = append(preview.rows, []string{strconv.Itoa(r.Year), r.Category, fmtInt(r.Count)})
	}

	return []section{info, stats, preview}
}

// trendSection lines up the total, male and female series by year.
func trendSection(tr models.Trends) section {
	byYear := func(pts []models.SeriesPoint) map[int]int64 {
		m := make(map[int]int64, len(pts))
		for _, p := range pts {
			m[p.Year] = p.Count
		}
		return m
	}
	total, male, female := byYear(tr.Total), byYear(tr.Male), byYear(tr.Female)

	var years []int
	for _, m := range []map[int]int64{total, male, female} {
		for y := range m {
			if !slices.Contains(years, y) {
				years = append(years, y)
			}
		}
	}
	slices.Sort(years)

	cell := func(m map[int]int64, y int) string {
		if v, ok := m[y]; ok {
			return fmtInt(v)
		}
		return na
	}

	s := section{title: "population trends", columns: []string{"Year", "Total", "Male", "Female"}}
	for _, y := range years {
		s.rows = append(s.rows, []string{strconv.Itoa(y), cell(total, y), cell(male, y), cell(female, y)})
	}
	return s
}

func ratioSections(ratios []models.EthnicRatio) []section {
	out := make([]section, 0, len(ratios)+1)
	summary := section{
		title:   "gender ratio summary",
		columns: []string{"Ethnic group", "Years", "Mean", "Highest", "Lowest"},
	}
	for _, er := range ratios {
		s := section{
			title:   fmt.Sprintf("gender ratio: %s", er.Group),
			columns: []string{"Year", "Female", "Male", "Female/Male"},
		}
		for _, r := range er.Rows {
			s.rows = append(s.rows, []string{strconv.Itoa(r.Year), fmtInt(r.Numerator), fmtInt(r.Denominator), fmtFloat(r.Ratio)})
		}
		out = append(out, s)
		summary.rows = append(summary.rows, []string{
			er.Group,
			strconv.Itoa(er.Summary.Count),
			fmtFloat(er.Summary.Mean),
			fmtExtreme(er.Summary.Max),
			fmtExtreme(er.Summary.Min),
		})
	}
	return append(out, summary)
}

func growthSections(g models.Growth) []section {
	rows := section{
		title:   fmt.Sprintf("growth rate: %s", g.Category),
		columns: []string{"Year", "Count", "Previous", "Growth (%)"},
	}
	for _, r := range g.Rows {
		rows.rows = append(rows.rows, []string{
			strconv.Itoa(r.Year),
			fmtInt(r.Count),
			fmtInt(r.PreviousCount),
			fmtFloat(r.GrowthRate),
		})
	}
	summary := section{
		title:   "growth summary",
		columns: []string{"Years", "Mean (%)", "Highest", "Lowest"},
		rows: [][]string{{
			strconv.Itoa(g.Summary.Count),
			fmtFloat(g.Summary.Mean),
			fmtExtreme(g.Summary.Max),
			fmtExtreme(g.Summary.Min),
		}},
	}
	return []section{rows, summary}
}
