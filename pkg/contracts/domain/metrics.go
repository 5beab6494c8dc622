package domain

// YearlyMetric is the share of retained respondents in a year that have a
// given language flag set.
type YearlyMetric struct {
	Year     int      `json:"year"`
	Language Language `json:"language"`
	Intent   Intent   `json:"intent"`
	Count    int      `json:"count"`
	Total    int      `json:"total"`
	Ratio    float64  `json:"ratio"`
}

// Column returns the boolean column the metric was computed from.
func (m YearlyMetric) Column() string {
	return FeatureColumn(m.Language, m.Intent)
}

// ChartTable is a small wide table handed to chart rendering: one row per
// label, one value per series.
type ChartTable struct {
	Title  string      `json:"title"`
	Labels []string    `json:"labels"`
	Series []string    `json:"series"`
	Values [][]float64 `json:"values"`
}
