package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"surveycli/internal/config"
	"surveycli/internal/files"
	"surveycli/pkg/contracts/domain"
)

// MetricsHeaders are the columns of the yearly metrics table
var MetricsHeaders = []string{"Year", "Language", "Intent", "Column", "Count", "Total", "Ratio"}

// percentFormat is the built-in 0.00% number format
const percentFormat = 10

// ReportSet is everything the report step hands to chart rendering.
type ReportSet struct {
	Metrics     []domain.YearlyMetric
	Comparison  domain.ChartTable
	WorkedTrend domain.ChartTable
	WantTrend   domain.ChartTable
}

// ReportExporter writes the aggregated survey tables under the reports directory.
type ReportExporter struct {
	paths  *config.Paths
	csv    *CSVWriter
	logger *slog.Logger
}

// NewReportExporter creates a new report exporter
func NewReportExporter(paths *config.Paths, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		paths:  paths,
		csv:    NewCSVWriter(paths),
		logger: logger,
	}
}

// Export writes the metrics and chart tables as CSV plus a single workbook,
// returning the written paths.
func (e *ReportExporter) Export(set ReportSet) ([]string, error) {
	outputs := []struct {
		name string
		fn   func(string) error
	}{
		{config.MetricsCSVName, func(p string) error { return e.ExportMetrics(p, set.Metrics) }},
		{config.ComparisonCSV, func(p string) error { return e.ExportChartTable(p, set.Comparison) }},
		{config.WorkedTrendCSV, func(p string) error { return e.ExportChartTable(p, set.WorkedTrend) }},
		{config.WantTrendCSV, func(p string) error { return e.ExportChartTable(p, set.WantTrend) }},
		{config.MetricsXLSXName, func(p string) error { return e.ExportWorkbook(p, set) }},
	}

	written := make([]string, 0, len(outputs))
	for _, out := range outputs {
		path := e.paths.GetReportPath(out.name)
		if err := out.fn(path); err != nil {
			return written, fmt.Errorf("failed to export %s: %w", out.name, err)
		}
		written = append(written, path)
	}

	e.logger.Info("reports_exported",
		slog.Int("files", len(written)),
		slog.String("reports_dir", e.paths.ReportsDir))
	return written, nil
}

// ExportMetrics writes one row per year, language and intent
func (e *ReportExporter) ExportMetrics(path string, metrics []domain.YearlyMetric) error {
	records := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		records = append(records, []string{
			formatInt(m.Year),
			string(m.Language),
			string(m.Intent),
			m.Column(),
			formatInt(m.Count),
			formatInt(m.Total),
			formatRatio(m.Ratio),
		})
	}
	return e.csv.WriteSimpleCSV(path, MetricsHeaders, records)
}

// ExportChartTable writes a chart table with a Label column followed by one
// column per series
func (e *ReportExporter) ExportChartTable(path string, table domain.ChartTable) error {
	headers := append([]string{"Label"}, table.Series...)
	records := make([][]string, 0, len(table.Labels))
	for i, label := range table.Labels {
		record := []string{label}
		for _, v := range table.Values[i] {
			record = append(record, formatRatio(v))
		}
		records = append(records, record)
	}
	return e.csv.WriteSimpleCSV(path, headers, records)
}

// ExportWorkbook writes the metrics and each chart table to its own sheet
func (e *ReportExporter) ExportWorkbook(path string, set ReportSet) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	percent, err := f.NewStyle(&excelize.Style{NumFmt: percentFormat})
	if err != nil {
		return fmt.Errorf("failed to create percent style: %w", err)
	}

	const metricsSheet = "Metrics"
	if err := f.SetSheetName(f.GetSheetName(0), metricsSheet); err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(set.Metrics)+1)
	rows = append(rows, toRow(MetricsHeaders))
	for _, m := range set.Metrics {
		rows = append(rows, []interface{}{
			m.Year, string(m.Language), string(m.Intent), m.Column(), m.Count, m.Total, cellRatio(m.Ratio),
		})
	}
	if err := writeSheet(f, metricsSheet, rows, header, percent, 7); err != nil {
		return err
	}

	for _, sheet := range []struct {
		name  string
		table domain.ChartTable
	}{
		{"Comparison", set.Comparison},
		{"Worked With", set.WorkedTrend},
		{"Want To Work With", set.WantTrend},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.name, err)
		}
		rows := [][]interface{}{toRow(append([]string{"Label"}, sheet.table.Series...))}
		for i, label := range sheet.table.Labels {
			row := []interface{}{label}
			for _, v := range sheet.table.Values[i] {
				row = append(row, cellRatio(v))
			}
			rows = append(rows, row)
		}
		if err := writeSheet(f, sheet.name, rows, header, percent, 0); err != nil {
			return err
		}
	}

	return files.WriteAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
}

// writeSheet writes rows from A1 and styles the header row. Ratios are in
// column percentCol (1-based), or every column after the first when zero.
func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, header, percent, percentCol int) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	width := len(rows[0])
	last, err := excelize.CoordinatesToCellName(width, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		return err
	}

	if len(rows) > 1 {
		from, to := percentCol, percentCol
		if percentCol == 0 {
			from, to = 2, width
		}
		if from <= width {
			start, _ := excelize.CoordinatesToCellName(from, 2)
			end, _ := excelize.CoordinatesToCellName(to, len(rows))
			if err := f.SetCellStyle(sheet, start, end, percent); err != nil {
				return err
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(width)
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

// cellRatio leaves NaN ratios as empty cells
func cellRatio(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return roundRatio(v)
}

// RatioPercent renders a ratio the way the charts label it, e.g. "50%".
func RatioPercent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v*100, 'f', 0, 64) + "%"
}
