package config

import "surveycli/pkg/contracts"

// Application constants
const (
	AppName     = "Survey Language Trends"
	AppVersion  = contracts.Version
	ServiceName = "survey-pipeline"

	// ProcessedFileName is the default name of the persisted tidy table
	ProcessedFileName = "processed_survey_data.csv"

	// Report outputs written under the reports directory
	MetricsCSVName   = "yearly_language_metrics.csv"
	MetricsXLSXName  = "yearly_language_metrics.xlsx"
	ComparisonCSV    = "language_comparison.csv"
	WorkedTrendCSV   = "worked_with_by_year.csv"
	WantTrendCSV     = "want_work_with_by_year.csv"
	SurveyExportName = "survey_results_public.csv"

	// RunManifestName records the steps of the last run
	RunManifestName = "run_manifest.json"
)

// Empty year policies for ratios over a year without retained responses
const (
	EmptyYearPolicyError = "error"
	EmptyYearPolicyZero  = "zero"
	EmptyYearPolicyNaN   = "nan"
)

// DefaultYears are the survey years the pipeline knows how to reconcile
var DefaultYears = []int{2017, 2018, 2019, 2020, 2021}

// DefaultNullTokens are the cell values read as missing answers.
// The developer surveys write "NA" for unanswered questions.
var DefaultNullTokens = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}
