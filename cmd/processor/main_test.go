package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths:\n  raw_dir: surveys\n  processed_csv: out/table.csv\n"), 0644))

	cfg, err := loadConfig(path, "", "")
	require.NoError(t, err)
	assert.Equal(t, "surveys", cfg.Paths.RawDir)
	assert.Equal(t, "out/table.csv", cfg.Paths.ProcessedCSV)

	cfg, err = loadConfig(path, "/mnt/raw", "/tmp/processed.csv")
	require.NoError(t, err)
	assert.Equal(t, "/mnt/raw", cfg.Paths.RawDir)
	assert.Equal(t, "/tmp/processed.csv", cfg.Paths.ProcessedCSV)
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	assert.Equal(t, 2, run([]string{"-bogus"}))
}

func TestRunFailsOnBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pipeline:\n  workers: 0\n"), 0644))

	assert.Equal(t, 1, run([]string{"-config", path}))
}
