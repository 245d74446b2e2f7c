package engine

// YearValue is one derived number keyed by year.
type YearValue struct {
	Year  int
	Value Value
}

// Extreme is the year at which a series reaches its max or min.
type Extreme struct {
	Year  int   `json:"year"`
	Value Value `json:"value"`
}

// Summary aggregates a derived column. Count is the number of defined values;
// undefined values are skipped, so an all-undefined series has undefined Mean.
type Summary struct {
	Count int     `json:"count"`
	Mean  Value   `json:"mean"`
	Max   Extreme `json:"max"`
	Min   Extreme `json:"min"`
}

// Summarize returns mean, max and min with the year of each extreme.
// Ties keep the earliest position in vals.
func Summarize(vals []YearValue) Summary {
	var (
		s   Summary
		sum float64
	)
	for _, yv := range vals {
		if !yv.Value.Defined {
			continue
		}
		v := yv.Value.Float
		if s.Count == 0 || v > s.Max.Value.Float {
			s.Max = Extreme{Year: yv.Year, Value: yv.Value}
		}
		if s.Count == 0 || v < s.Min.Value.Float {
			s.Min = Extreme{Year: yv.Year, Value: yv.Value}
		}
		sum += v
		s.Count++
	}
	if s.Count > 0 {
		s.Mean = Of(sum / float64(s.Count))
	}
	return s
}

// RatioValues projects ratio rows onto their unrounded ratios.
func RatioValues(rows []RatioRow) []YearValue {
	out := make([]YearValue, len(rows))
	for i, r := range rows {
		out[i] = YearValue{Year: r.Year, Value: r.Ratio}
	}
	return out
}

// GrowthValues projects growth rows onto their unrounded rates.
func GrowthValues(rows []GrowthRow) []YearValue {
	out := make([]YearValue, len(rows))
	for i, g := range rows {
		out[i] = YearValue{Year: g.Year, Value: g.Rate}
	}
	return out
}
