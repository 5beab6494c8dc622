// Package dataprocessing turns raw developer survey exports into the tidy
// table the language reports are computed from.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Parser: reads a year's export (CSV or xlsx) into a RawTable
// 2. Reconciler: maps each year's columns onto the canonical schema using a
// declarative per-year FormatTable
// 3. Processor: the data scientist filter, language flags and the
// missing-language cleanup
// 4. Aggregator: yearly ratios and chart tables over the processed table
//
// # Usage
//
//	table, err := dataprocessing.ReadRawFile(path, dataprocessing.ReadOptions{NullTokens: tokens})
//	rows, err := dataprocessing.NewReconciler(nil).Reconcile(2019, table)
//	rows, _ = dataprocessing.FilterDataScientists(rows)
//	err = dataprocessing.NewFeatureEngineer(nil, 4).Engineer(ctx, rows)
//	rows, _ = dataprocessing.DropMissingLanguages(rows)
//
// # Data Flow
//
//	Export → Parser → RawTable → Reconciler → SurveyResponses → Processor → Aggregator → YearlyMetrics
//
// # Error Handling
//
//   - Malformed CSV input returns *errors.MalformedCSVError with the line
//   - A year that cannot be mapped returns *errors.SchemaMismatchError
//   - A ratio over a year without responses returns *errors.EmptyYearError
//     unless another empty year policy is configured
package dataprocessing
