package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ColumnStats mirrors a dataframe describe() for one numeric column.
type ColumnStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q25   float64 `json:"p25"`
	Q50   float64 `json:"p50"`
	Q75   float64 `json:"p75"`
	Max   float64 `json:"max"`
}

// Describe computes count, mean, sample std, min, quartiles and max.
// Std is NaN for fewer than two values; every field but Count is NaN for none.
func Describe(xs []float64) ColumnStats {
	n := len(xs)
	if n == 0 {
		nan := math.NaN()
		return ColumnStats{Mean: nan, Std: nan, Min: nan, Q25: nan, Q50: nan, Q75: nan, Max: nan}
	}

	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if n < 2 {
		std = math.NaN()
	}

	return ColumnStats{
		Count: n,
		Mean:  mean,
		Std:   std,
		Min:   sorted[0],
		Q25:   quantile(sorted, 0.25),
		Q50:   quantile(sorted, 0.50),
		Q75:   quantile(sorted, 0.75),
		Max:   sorted[n-1],
	}
}

// quantile interpolates linearly between closest ranks at position p*(n-1),
// unlike gonum's stat.Quantile estimators.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// DescribeYears describes the Year column.
func (t *Table) DescribeYears() ColumnStats {
	xs := make([]float64, t.Len())
	for i := range xs {
		xs[i] = float64(t.years[i])
	}
	return Describe(xs)
}

// DescribeCounts describes the Count column.
func (t *Table) DescribeCounts() ColumnStats {
	xs := make([]float64, t.Len())
	for i := range xs {
		xs[i] = float64(t.counts[i])
	}
	return Describe(xs)
}
