package engine

// Display precision used by the dashboards.
const (
	RatioPrecision  = 3
	GrowthPrecision = 2
)

// Point is one (year, count) observation of a category.
type Point struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

// Pair joins two categories on one year.
type Pair struct {
	Year   int   `json:"year"`
	CountA int64 `json:"count_a"`
	CountB int64 `json:"count_b"`
}

// RatioRow is Numerator/Denominator for one year. Ratio is unrounded.
type RatioRow struct {
	Year        int   `json:"year"`
	Numerator   int64 `json:"numerator"`
	Denominator int64 `json:"denominator"`
	Ratio       Value `json:"ratio"`
}

// Rounded returns the ratio at display precision.
func (r RatioRow) Rounded() Value { return r.Ratio.Round(RatioPrecision) }

// GrowthRow is the change from the previous year, in percent. Rate is unrounded.
type GrowthRow struct {
	Year          int   `json:"year"`
	Count         int64 `json:"count"`
	PreviousCount int64 `json:"previous_count"`
	Rate          Value `json:"growth_rate"`
}

// Rounded returns the growth rate at display precision.
func (g GrowthRow) Rounded() Value { return g.Rate.Round(GrowthPrecision) }

// SelectCategory returns the rows of c in table order.
// An unknown category yields an empty slice.
func SelectCategory(t *Table, c Category) []Point {
	id, ok := t.lookup(c)
	if !ok {
		return []Point{}
	}
	out := make([]Point, 0, 32)
	for i, cid := range t.categoryIDs {
		if cid == id {
			out = append(out, Point{Year: t.years[i], Count: t.counts[i]})
		}
	}
	return out
}

// joinOnYear inner-joins a and b, keeping the order of a.
func joinOnYear(a, b []Point) []Pair {
	right := make(map[int]int64, len(b))
	for _, p := range b {
		right[p.Year] = p.Count
	}
	out := make([]Pair, 0, min(len(a), len(b)))
	for _, p := range a {
		if cb, ok := right[p.Year]; ok {
			out = append(out, Pair{Year: p.Year, CountA: p.Count, CountB: cb})
		}
	}
	return out
}

// filterYears keeps the points whose year is in years.
func filterYears(pts []Point, years []int) []Point {
	keep := make(map[int]struct{}, len(years))
	for _, y := range years {
		keep[y] = struct{}{}
	}
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if _, ok := keep[p.Year]; ok {
			out = append(out, p)
		}
	}
	return out
}

// PairCategories joins a and b on year. Years present on only one side are dropped.
func PairCategories(t *Table, a, b Category) []Pair {
	return joinOnYear(SelectCategory(t, a), SelectCategory(t, b))
}

// Ratio computes numerator/denominator per joined year. A nil years slice
// means every year; otherwise both sides are restricted to years before joining.
func Ratio(t *Table, numerator, denominator Category, years []int) []RatioRow {
	num := SelectCategory(t, numerator)
	den := SelectCategory(t, denominator)
	if years != nil {
		num = filterYears(num, years)
		den = filterYears(den, years)
	}

	pairs := joinOnYear(num, den)
	out := make([]RatioRow, len(pairs))
	for i, p := range pairs {
		out[i] = RatioRow{
			Year:        p.Year,
			Numerator:   p.CountA,
			Denominator: p.CountB,
			Ratio:       Div(float64(p.CountA), float64(p.CountB)),
		}
	}
	return out
}

// GrowthRate compares each year of c with the year before it. The series is
// shifted forward one year and joined back onto itself, so the earliest year
// (and any year after a gap) has no previous count and is left out.
func GrowthRate(t *Table, c Category) []GrowthRow {
	series := SelectCategory(t, c)
	shifted := make([]Point, len(series))
	for i, p := range series {
		shifted[i] = Point{Year: p.Year + 1, Count: p.Count}
	}

	pairs := joinOnYear(series, shifted)
	out := make([]GrowthRow, len(pairs))
	for i, p := range pairs {
		out[i] = GrowthRow{
			Year:          p.Year,
			Count:         p.CountA,
			PreviousCount: p.CountB,
			Rate:          Div(float64(p.CountA-p.CountB), float64(p.CountB)).scale(100),
		}
	}
	return out
}

func (v Value) scale(f float64) Value {
	if !v.Defined {
		return v
	}
	return Of(v.Float * f)
}
