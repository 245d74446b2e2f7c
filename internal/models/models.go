package models

// DashboardData holds the four dashboard views. Derived numbers are rounded for
// display; null means the value is undefined (zero denominator).
type DashboardData struct {
	Overview     Overview      `json:"overview"`
	Trends       Trends        `json:"trends"`
	GenderRatios []EthnicRatio `json:"gender_ratios"`
	Growth       Growth        `json:"growth"`
}

type Overview struct {
	Records    int         `json:"records"`
	FirstYear  int         `json:"first_year"`
	LastYear   int         `json:"last_year"`
	Categories int         `json:"categories"`
	Preview    []Record    `json:"preview"`
	Year       ColumnStats `json:"year_stats"`
	Count      ColumnStats `json:"count_stats"`
}

type Record struct {
	Year     int    `json:"year"`
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// ColumnStats is a describe() row set; pointers are nil where undefined.
type ColumnStats struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Std   *float64 `json:"std"`
	Min   *float64 `json:"min"`
	Q25   *float64 `json:"p25"`
	Q50   *float64 `json:"p50"`
	Q75   *float64 `json:"p75"`
	Max   *float64 `json:"max"`
}

type SeriesPoint struct {
	Year  int   `json:"year"`
	Count int64 `json:"count"`
}

type GenderPoint struct {
	Year   int   `json:"year"`
	Male   int64 `json:"male"`
	Female int64 `json:"female"`
}

type Trends struct {
	Total      []SeriesPoint `json:"total"`
	Male       []SeriesPoint `json:"male"`
	Female     []SeriesPoint `json:"female"`
	Comparison []GenderPoint `json:"comparison"`
}

type RatioPoint struct {
	Year        int      `json:"year"`
	Numerator   int64    `json:"numerator"`
	Denominator int64    `json:"denominator"`
	Ratio       *float64 `json:"ratio"`
}

type Extreme struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
}

type Summary struct {
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Max   *Extreme `json:"max"`
	Min   *Extreme `json:"min"`
}

type EthnicRatio struct {
	Group       string       `json:"group"`
	Numerator   string       `json:"numerator"`
	Denominator string       `json:"denominator"`
	Rows        []RatioPoint `json:"rows"`
	Summary     Summary      `json:"summary"`
}

type GrowthPoint struct {
	Year          int      `json:"year"`
	Count         int64    `json:"count"`
	PreviousCount int64    `json:"previous_count"`
	GrowthRate    *float64 `json:"growth_rate_pct"`
}

type Growth struct {
	Category string        `json:"category"`
	Rows     []GrowthPoint `json:"rows"`
	Summary  Summary       `json:"summary"`
}
