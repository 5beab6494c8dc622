package exporter

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"surveycli/internal/config"
	"surveycli/pkg/contracts/domain"
)

func sampleReportSet() ReportSet {
	return ReportSet{
		Metrics: []domain.YearlyMetric{
			{Year: 2021, Language: domain.LanguagePython, Intent: domain.IntentWorkedWith, Count: 1, Total: 2, Ratio: 0.5},
			{Year: 2021, Language: domain.LanguageJulia, Intent: domain.IntentWantWorkWith, Count: 0, Total: 0, Ratio: math.NaN()},
		},
		Comparison: domain.ChartTable{
			Title:  "Use of and Interest in Data Science Languages in 2021",
			Labels: []string{"Python", "R"},
			Series: []string{"Worked with", "Want to work with"},
			Values: [][]float64{{0.5, 0.25}, {0.125, 0}},
		},
		WorkedTrend: domain.ChartTable{
			Labels: []string{"2020", "2021"},
			Series: []string{"Python"},
			Values: [][]float64{{0.4}, {0.5}},
		},
		WantTrend: domain.ChartTable{
			Labels: []string{"2020", "2021"},
			Series: []string{"Python"},
			Values: [][]float64{{math.NaN()}, {0.75}},
		},
	}
}

func TestReportExporterExport(t *testing.T) {
	_, paths := setupTestEnv(t)
	exporter := NewReportExporter(paths, nil)

	written, err := exporter.Export(sampleReportSet())
	require.NoError(t, err)
	require.Len(t, written, 5)
	for _, path := range written {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	metrics := readCSV(t, paths.GetReportPath(config.MetricsCSVName))
	assert.Equal(t, MetricsHeaders, metrics[0])
	assert.Equal(t, []string{"2021", "Python", "WorkedWith", "PythonWorkedWith", "1", "2", "0.5"}, metrics[1])
	assert.Equal(t, "", metrics[2][6], "NaN ratios are empty")

	comparison := readCSV(t, paths.GetReportPath(config.ComparisonCSV))
	assert.Equal(t, [][]string{
		{"Label", "Worked with", "Want to work with"},
		{"Python", "0.5", "0.25"},
		{"R", "0.125", "0"},
	}, comparison)

	want := readCSV(t, paths.GetReportPath(config.WantTrendCSV))
	assert.Equal(t, []string{"2020", ""}, want[1])
}

func TestReportExporterWorkbook(t *testing.T) {
	_, paths := setupTestEnv(t)
	path := paths.GetReportPath(config.MetricsXLSXName)

	require.NoError(t, NewReportExporter(paths, nil).ExportWorkbook(path, sampleReportSet()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Metrics", "Comparison", "Worked With", "Want To Work With"}, f.GetSheetList())

	year, err := f.GetCellValue("Metrics", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2021", year)

	column, err := f.GetCellValue("Metrics", "D2")
	require.NoError(t, err)
	assert.Equal(t, "PythonWorkedWith", column)

	rows, err := f.GetRows("Comparison", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Label", "Worked with", "Want to work with"}, rows[0])
	assert.Equal(t, []string{"Python", "0.5", "0.25"}, rows[1])
}
