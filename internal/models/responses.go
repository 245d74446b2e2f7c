package models

// Responses of the single-view API routes. Warning is set when a request
// matched nothing; the view is still returned, empty.

type Health struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Records int    `json:"records"`
}

type Page struct {
	Data   []Record `json:"data"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

type CategoryInfo struct {
	Label string `json:"label"`
	Known bool   `json:"known"`
}

type SeriesResponse struct {
	Category string        `json:"category"`
	Rows     []SeriesPoint `json:"rows"`
	Warning  string        `json:"warning,omitempty"`
}

type PairPoint struct {
	Year   int   `json:"year"`
	CountA int64 `json:"count_a"`
	CountB int64 `json:"count_b"`
}

type PairResponse struct {
	CategoryA string      `json:"category_a"`
	CategoryB string      `json:"category_b"`
	Rows      []PairPoint `json:"rows"`
	Warning   string      `json:"warning,omitempty"`
}

type RatioResponse struct {
	Numerator   string       `json:"numerator"`
	Denominator string       `json:"denominator"`
	Years       []int        `json:"years,omitempty"`
	Rows        []RatioPoint `json:"rows"`
	Summary     Summary      `json:"summary"`
	Warning     string       `json:"warning,omitempty"`
}

type GrowthResponse struct {
	Growth
	Warning string `json:"warning,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
