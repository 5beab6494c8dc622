package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveycli/internal/config"
)

func setupTestEnv(t *testing.T) (*CSVWriter, *config.Paths) {
	t.Helper()
	tempDir := t.TempDir()
	paths := &config.Paths{
		BaseDir:    tempDir,
		ReportsDir: filepath.Join(tempDir, "reports"),
	}
	return NewCSVWriter(paths), paths
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, utf8BOM)
	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestNewCSVWriter(t *testing.T) {
	paths := &config.Paths{}
	writer := NewCSVWriter(paths)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, paths := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		wantBOM  bool
		want     [][]string
	}{
		{
			name:     "headers and records",
			filePath: "simple.csv",
			options: WriteOptions{
				Headers: []string{"Year", "Ratio"},
				Records: [][]string{{"2021", "0.5"}, {"2020", "0.25"}},
			},
			want: [][]string{{"Year", "Ratio"}, {"2021", "0.5"}, {"2020", "0.25"}},
		},
		{
			name:     "with BOM",
			filePath: "bom.csv",
			options: WriteOptions{
				Headers:   []string{"Label"},
				Records:   [][]string{{"Python"}},
				BOMPrefix: true,
			},
			wantBOM: true,
			want:    [][]string{{"Label"}, {"Python"}},
		},
		{
			name:     "quoted fields",
			filePath: "nested/quoted.csv",
			options: WriteOptions{
				Headers: []string{"DevType"},
				Records: [][]string{{"Developer, back-end;Data scientist"}},
			},
			want: [][]string{{"DevType"}, {"Developer, back-end;Data scientist"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, writer.WriteCSV(tt.filePath, tt.options))

			fullPath := paths.GetReportPath(tt.filePath)
			content, err := os.ReadFile(fullPath)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(content, utf8BOM))
			assert.Equal(t, tt.want, readCSV(t, fullPath))
		})
	}
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	writer, _ := setupTestEnv(t)
	target := filepath.Join(t.TempDir(), "abs.csv")

	require.NoError(t, writer.WriteSimpleCSV(target, []string{"a"}, [][]string{{"1"}}))
	assert.Equal(t, [][]string{{"a"}, {"1"}}, readCSV(t, target))
}

func TestCSVWriter_StreamWriter(t *testing.T) {
	writer, paths := setupTestEnv(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"Name", "Value"}, false)
	require.NoError(t, err)
	assert.Equal(t, paths.GetReportPath("stream.csv"), stream.Path())

	for i := 0; i < 100; i++ {
		require.NoError(t, stream.WriteRecord([]string{"row", strings.Repeat("x", i%5)}))
	}
	assert.Equal(t, 100, stream.Count())

	_, err = os.Stat(stream.Path())
	assert.True(t, os.IsNotExist(err), "nothing is visible before Close")

	require.NoError(t, stream.Close())

	records := readCSV(t, stream.Path())
	assert.Len(t, records, 101)
	assert.Equal(t, []string{"Name", "Value"}, records[0])
}

func TestCSVWriter_StreamAbort(t *testing.T) {
	writer, paths := setupTestEnv(t)
	target := paths.GetReportPath("aborted.csv")

	require.NoError(t, writer.WriteSimpleCSV("aborted.csv", []string{"old"}, nil))

	stream, err := writer.CreateStreamWriter("aborted.csv", []string{"new"}, true)
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"partial"}))
	require.NoError(t, stream.Abort())

	assert.Equal(t, [][]string{{"old"}}, readCSV(t, target), "abort keeps the previous file")
}
