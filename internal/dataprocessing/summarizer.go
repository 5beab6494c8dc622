package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"surveycli/internal/errors"
	"surveycli/pkg/contracts/domain"
)

// Empty year policies, matching pipeline.empty_year_policy.
const (
	EmptyYearError = "error"
	EmptyYearZero  = "zero"
	EmptyYearNaN   = "nan"
)

// Aggregator computes yearly ratios over the processed survey table.
type Aggregator struct {
	df     dataframe.DataFrame
	policy string
	logger *slog.Logger
}

// AggregatorConfig holds configuration options for the Aggregator.
type AggregatorConfig struct {
	EmptyYearPolicy string
	Logger          *slog.Logger
}

func newAggregator(df dataframe.DataFrame, cfg AggregatorConfig) (*Aggregator, error) {
	if df.Err != nil {
		return nil, errors.NewParsingError("failed to load processed survey table", df.Err)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	switch cfg.EmptyYearPolicy {
	case "":
		cfg.EmptyYearPolicy = EmptyYearError
	case EmptyYearError, EmptyYearZero, EmptyYearNaN:
	default:
		return nil, errors.NewAppValidationError(fmt.Sprintf("unknown empty year policy %q", cfg.EmptyYearPolicy))
	}
	return &Aggregator{df: df, policy: cfg.EmptyYearPolicy, logger: cfg.Logger}, nil
}

// NewAggregator loads a processed survey table in CSV form. Every column is
// kept as text so flags compare against "True".
func NewAggregator(r io.Reader, cfg AggregatorConfig) (*Aggregator, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, malformed("", err)
	}
	return newAggregator(loadFrame(records), cfg)
}

// NewAggregatorFromResponses builds an aggregator over in-memory responses.
func NewAggregatorFromResponses(rows []domain.SurveyResponse, languages []domain.Language, cfg AggregatorConfig) (*Aggregator, error) {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, domain.ProcessedColumns(languages))
	for _, r := range rows {
		records = append(records, r.Record(languages))
	}
	return newAggregator(loadFrame(records), cfg)
}

// loadFrame builds a text-only dataframe. A table without data rows yields
// an empty frame.
func loadFrame(records [][]string) dataframe.DataFrame {
	if len(records) < 2 {
		return dataframe.DataFrame{}
	}
	return dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
}

// Rows returns the number of responses in the table.
func (a *Aggregator) Rows() int {
	return a.df.Nrow()
}

// Count returns how many responses of a year have column set, and how many
// responses that year has.
func (a *Aggregator) Count(year int, column string) (count, total int, err error) {
	if a.df.Nrow() == 0 {
		return 0, 0, nil
	}
	sub := a.df.Filter(dataframe.F{
		Colname:    domain.ColumnYear,
		Comparator: series.Eq,
		Comparando: strconv.Itoa(year),
	})
	if sub.Err != nil {
		return 0, 0, errors.NewParsingError("failed to filter survey year", sub.Err).WithContext("year", year)
	}

	total = sub.Nrow()
	if total == 0 {
		return 0, 0, nil
	}

	col := sub.Col(column)
	if col.Err != nil {
		return 0, 0, errors.NewNotFoundError("column " + column)
	}
	for _, v := range col.Records() {
		if strings.EqualFold(v, domain.TrueText) {
			count++
		}
	}
	return count, total, nil
}

// Ratio returns the share of a year's responses with column set. A year
// without responses is resolved by the empty year policy.
func (a *Aggregator) Ratio(year int, column string) (float64, error) {
	count, total, err := a.Count(year, column)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return a.emptyRatio(year, column)
	}
	return float64(count) / float64(total), nil
}

func (a *Aggregator) emptyRatio(year int, column string) (float64, error) {
	switch a.policy {
	case EmptyYearZero:
		a.logger.Warn("empty_year_ratio", slog.Int("year", year), slog.String("column", column), slog.String("policy", a.policy))
		return 0, nil
	case EmptyYearNaN:
		a.logger.Warn("empty_year_ratio", slog.Int("year", year), slog.String("column", column), slog.String("policy", a.policy))
		return math.NaN(), nil
	}
	return 0, errors.NewEmptyYearError(year, column)
}

// YearlyMetrics computes one metric per year, language and intent.
func (a *Aggregator) YearlyMetrics(years []int, languages []domain.Language) ([]domain.YearlyMetric, error) {
	metrics := make([]domain.YearlyMetric, 0, len(years)*len(languages)*len(domain.Intents))
	for _, year := range years {
		for _, intent := range domain.Intents {
			for _, lang := range languages {
				column := domain.FeatureColumn(lang, intent)
				count, total, err := a.Count(year, column)
				if err != nil {
					return nil, err
				}
				ratio := 0.0
				if total == 0 {
					if ratio, err = a.emptyRatio(year, column); err != nil {
						return nil, err
					}
				} else {
					ratio = float64(count) / float64(total)
				}
				metrics = append(metrics, domain.YearlyMetric{
					Year:     year,
					Language: lang,
					Intent:   intent,
					Count:    count,
					Total:    total,
					Ratio:    ratio,
				})
			}
		}
	}

	a.logger.Debug("yearly_metrics_computed", slog.Int("metrics", len(metrics)), slog.Int("rows", a.df.Nrow()))
	return metrics, nil
}

// IntentLabel is the chart legend text of an intent.
func IntentLabel(intent domain.Intent) string {
	if intent == domain.IntentWantWorkWith {
		return "Want to work with"
	}
	return "Worked with"
}

func metricIndex(metrics []domain.YearlyMetric) map[string]float64 {
	idx := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		idx[metricKey(m.Year, m.Language, m.Intent)] = m.Ratio
	}
	return idx
}

func metricKey(year int, lang domain.Language, intent domain.Intent) string {
	return strconv.Itoa(year) + "/" + string(lang) + "/" + string(intent)
}

// ComparisonTable lays out one year's ratios per language, worked with
// against want to work with. Missing metrics are NaN.
func ComparisonTable(metrics []domain.YearlyMetric, year int, languages []domain.Language) domain.ChartTable {
	idx := metricIndex(metrics)
	table := domain.ChartTable{
		Title:  fmt.Sprintf("Use of and Interest in Data Science Languages in %d", year),
		Labels: make([]string, 0, len(languages)),
	}
	for _, intent := range domain.Intents {
		table.Series = append(table.Series, IntentLabel(intent))
	}
	for _, lang := range languages {
		table.Labels = append(table.Labels, string(lang))
		row := make([]float64, 0, len(domain.Intents))
		for _, intent := range domain.Intents {
			row = append(row, lookupRatio(idx, year, lang, intent))
		}
		table.Values = append(table.Values, row)
	}
	return table
}

// TrendTable lays out one intent's ratios per year and language.
func TrendTable(metrics []domain.YearlyMetric, intent domain.Intent, years []int, languages []domain.Language) domain.ChartTable {
	idx := metricIndex(metrics)
	table := domain.ChartTable{
		Title: fmt.Sprintf("Developers who %s each language by year", strings.ToLower(IntentLabel(intent))),
	}
	for _, lang := range languages {
		table.Series = append(table.Series, string(lang))
	}
	for _, year := range years {
		table.Labels = append(table.Labels, strconv.Itoa(year))
		row := make([]float64, 0, len(languages))
		for _, lang := range languages {
			row = append(row, lookupRatio(idx, year, lang, intent))
		}
		table.Values = append(table.Values, row)
	}
	return table
}

func lookupRatio(idx map[string]float64, year int, lang domain.Language, intent domain.Intent) float64 {
	if v, ok := idx[metricKey(year, lang, intent)]; ok {
		return v
	}
	return math.NaN()
}
