package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	base := t.TempDir()

	paths, err := NewPaths(PathsConfig{
		BaseDir:      base,
		RawDir:       "raw",
		ProcessedCSV: "out/processed.csv",
		ReportsDir:   "/abs/reports",
		LogsDir:      "logs",
	})
	require.NoError(t, err)

	assert.Equal(t, base, paths.BaseDir)
	assert.Equal(t, filepath.Join(base, "raw"), paths.RawDir)
	assert.Equal(t, filepath.Join(base, "out", "processed.csv"), paths.ProcessedCSV)
	assert.Equal(t, "/abs/reports", paths.ReportsDir)
	assert.Equal(t, "", paths.MetricsFile)
	assert.Equal(t, "", paths.FormatsFile)
}

func TestPathsHelpers(t *testing.T) {
	base := t.TempDir()
	paths, err := NewPaths(PathsConfig{BaseDir: base, RawDir: "data", ProcessedCSV: "data/p.csv", ReportsDir: "reports"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "reports", "m.csv"), paths.GetReportPath("m.csv"))
	assert.Equal(t, filepath.Join(base, "run.log"), paths.GetLogPath("run.log"), "no logs dir falls back to the base dir")
	assert.Equal(t, "/var/log/survey.log", paths.GetLogPath("/var/log/survey.log"))

	withLogs, err := NewPaths(PathsConfig{BaseDir: base, RawDir: "data", ProcessedCSV: "data/p.csv", ReportsDir: "reports", LogsDir: "logs"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "logs", "survey.log"), withLogs.GetLogPath("survey.log"))
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths, err := NewPaths(PathsConfig{
		BaseDir:      base,
		RawDir:       "data",
		ProcessedCSV: "data/processed/p.csv",
		ReportsDir:   "reports",
		LogsDir:      "logs",
		MetricsFile:  "metrics/run.prom",
	})
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{"data/processed", "reports", "logs", "metrics"} {
		info, err := os.Stat(filepath.Join(base, dir))
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}
}
