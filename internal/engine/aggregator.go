package engine

import (
	"math"

	"residents/internal/models"
)

const previewRows = 20

// ViewOptions parameterise the dashboard views.
type ViewOptions struct {
	RatioYears      []int
	RatioPrecision  int
	GrowthPrecision int
	GrowthCategory  Category
}

// DefaultViewOptions returns the standard dashboard settings.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		RatioYears:      []int{2000, 2003, 2006, 2009, 2012},
		RatioPrecision:  RatioPrecision,
		GrowthPrecision: GrowthPrecision,
		GrowthCategory:  Known(KindTotalResidents),
	}
}

// Aggregate builds every dashboard view from the snapshot.
func (t *Table) Aggregate(opts ViewOptions) *models.DashboardData {
	data := &models.DashboardData{
		Overview:     t.Overview(),
		Trends:       t.Trends(),
		GenderRatios: make([]models.EthnicRatio, 0, 4),
		Growth:       GrowthView(t, opts.GrowthCategory, opts.GrowthPrecision),
	}

	for _, g := range EthnicGroups() {
		data.GenderRatios = append(data.GenderRatios, GenderRatioView(t, g, opts.RatioYears, opts.RatioPrecision))
	}

	return data
}

// GenderRatioView returns the female/male ratio of one ethnic group.
func GenderRatioView(t *Table, g EthnicGroup, years []int, precision int) models.EthnicRatio {
	female, male := g.Of(Female), g.Of(Male)
	rows := Ratio(t, female, male, years)
	return models.EthnicRatio{
		Group:       g.String(),
		Numerator:   female.Label(),
		Denominator: male.Label(),
		Rows:        RatioPoints(rows, precision),
		Summary:     SummaryModel(Summarize(RatioValues(rows)), precision),
	}
}

// Overview returns record counts, the year span, a preview and column stats.
func (t *Table) Overview() models.Overview {
	first, last, _ := t.YearRange()
	preview := t.Records(0, previewRows)
	ov := models.Overview{
		Records:    t.Len(),
		FirstYear:  first,
		LastYear:   last,
		Categories: len(t.Categories()),
		Preview:    make([]models.Record, len(preview)),
		Year:       statsModel(t.DescribeYears()),
		Count:      statsModel(t.DescribeCounts()),
	}
	for i, r := range preview {
		ov.Preview[i] = models.Record(r)
	}
	return ov
}

// Trends returns the total, male and female series and their comparison.
func (t *Table) Trends() models.Trends {
	male, female := Residents(Male), Residents(Female)
	tr := models.Trends{
		Total:  SeriesPoints(SelectCategory(t, Known(KindTotalResidents))),
		Male:   SeriesPoints(SelectCategory(t, male)),
		Female: SeriesPoints(SelectCategory(t, female)),
	}
	pairs := PairCategories(t, male, female)
	tr.Comparison = make([]models.GenderPoint, len(pairs))
	for i, p := range pairs {
		tr.Comparison[i] = models.GenderPoint{Year: p.Year, Male: p.CountA, Female: p.CountB}
	}
	return tr
}

// GrowthView returns the growth rows of c rounded to precision, with a summary.
func GrowthView(t *Table, c Category, precision int) models.Growth {
	rows := GrowthRate(t, c)
	g := models.Growth{
		Category: c.Label(),
		Rows:     make([]models.GrowthPoint, len(rows)),
		Summary:  SummaryModel(Summarize(GrowthValues(rows)), precision),
	}
	for i, r := range rows {
		g.Rows[i] = models.GrowthPoint{
			Year:          r.Year,
			Count:         r.Count,
			PreviousCount: r.PreviousCount,
			GrowthRate:    r.Rate.Round(precision).Ptr(),
		}
	}
	return g
}

// SeriesPoints converts selected points to their response form.
func SeriesPoints(pts []Point) []models.SeriesPoint {
	out := make([]models.SeriesPoint, len(pts))
	for i, p := range pts {
		out[i] = models.SeriesPoint(p)
	}
	return out
}

// RatioPoints converts ratio rows, rounding to precision.
func RatioPoints(rows []RatioRow, precision int) []models.RatioPoint {
	out := make([]models.RatioPoint, len(rows))
	for i, r := range rows {
		out[i] = models.RatioPoint{
			Year:        r.Year,
			Numerator:   r.Numerator,
			Denominator: r.Denominator,
			Ratio:       r.Ratio.Round(precision).Ptr(),
		}
	}
	return out
}

// SummaryModel rounds a summary to precision. Max and Min are nil when no
// value was defined.
func SummaryModel(s Summary, precision int) models.Summary {
	out := models.Summary{Count: s.Count, Mean: s.Mean.Round(precision).Ptr()}
	if s.Count > 0 {
		out.Max = &models.Extreme{Year: s.Max.Year, Value: s.Max.Value.Round(precision).Ptr()}
		out.Min = &models.Extreme{Year: s.Min.Year, Value: s.Min.Value.Round(precision).Ptr()}
	}
	return out
}

func statsModel(s ColumnStats) models.ColumnStats {
	return models.ColumnStats{
		Count: s.Count,
		Mean:  finitePtr(s.Mean),
		Std:   finitePtr(s.Std),
		Min:   finitePtr(s.Min),
		Q25:   finitePtr(s.Q25),
		Q50:   finitePtr(s.Q50),
		Q75:   finitePtr(s.Q75),
		Max:   finitePtr(s.Max),
	}
}

func finitePtr(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
