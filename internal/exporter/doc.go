// Package exporter writes survey pipeline outputs.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing with headers, streaming and a UTF-8 BOM for
// Excel compatibility. Files are written to a temporary name and renamed
// into place.
//
// ProcessedStore: Writes and reads the processed survey table, the cache
// between a processing run and a report run.
//
// ReportExporter: Writes the yearly language metrics and the chart tables as
// CSV files and an xlsx workbook.
//
// Example usage:
//
//	store := exporter.NewProcessedStore(domain.DefaultLanguages, logger)
//	err := store.Write(paths.ProcessedCSV, rows)
//
//	reports := exporter.NewReportExporter(paths, logger)
//	written, err := reports.Export(exporter.ReportSet{Metrics: metrics})
package exporter
