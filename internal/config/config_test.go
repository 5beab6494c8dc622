package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "surveycli/internal/errors"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	envVars := []string{
		"SURVEY_CONFIG", "SURVEY_LOGGING_LEVEL", "SURVEY_LOGGING_OUTPUT",
		"SURVEY_PATHS_RAW_DIR", "SURVEY_PIPELINE_YEARS", "SURVEY_PIPELINE_WORKERS",
		"SURVEY_PIPELINE_EMPTY_YEAR_POLICY", "SURVEY_TELEMETRY_TRACING",
	}
	for _, envVar := range envVars {
		// t.Setenv restores the original value after the test
		t.Setenv(envVar, "")
		os.Unsetenv(envVar)
	}

	writeFile := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	tests := []struct {
		name        string
		setupEnv    func(t *testing.T)
		setupFile   func(t *testing.T) string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no file and no env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "both", cfg.Logging.Output)
				assert.Equal(t, []int{2017, 2018, 2019, 2020, 2021}, cfg.Pipeline.Years)
				assert.Equal(t, []string{"Python", "R", "Julia"}, cfg.Pipeline.Languages)
				assert.Equal(t, 1, cfg.Pipeline.Workers)
				assert.Equal(t, EmptyYearPolicyError, cfg.Pipeline.EmptyYearPolicy)
				assert.Equal(t, "data/processed_survey_data.csv", cfg.Paths.ProcessedCSV)
				assert.Contains(t, cfg.Pipeline.NullTokens, "NA")
				assert.Equal(t, "none", cfg.Telemetry.Tracing)
			},
		},
		{
			name: "file overrides defaults",
			setupFile: func(t *testing.T) string {
				return writeFile(t, `
logging:
  level: DEBUG
paths:
  raw_dir: /srv/surveys
pipeline:
  years: [2020, 2021]
  workers: 4
  report_year: 2021
`)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "/srv/surveys", cfg.Paths.RawDir)
				assert.Equal(t, []int{2020, 2021}, cfg.Pipeline.Years)
				assert.Equal(t, 4, cfg.Pipeline.Workers)
				// untouched keys keep their defaults
				assert.Equal(t, "both", cfg.Logging.Output)
			},
		},
		{
			name: "env overrides file",
			setupFile: func(t *testing.T) string {
				return writeFile(t, "pipeline:\n  workers: 2\n")
			},
			setupEnv: func(t *testing.T) {
				t.Setenv("SURVEY_PIPELINE_WORKERS", "8")
				t.Setenv("SURVEY_PIPELINE_YEARS", "2019,2021")
				t.Setenv("SURVEY_PIPELINE_EMPTY_YEAR_POLICY", "Zero")
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8, cfg.Pipeline.Workers)
				assert.Equal(t, []int{2019, 2021}, cfg.Pipeline.Years)
				assert.Equal(t, EmptyYearPolicyZero, cfg.Pipeline.EmptyYearPolicy)
			},
		},
		{
			name: "config file located through SURVEY_CONFIG",
			setupEnv: func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "survey.yaml")
				require.NoError(t, os.WriteFile(path, []byte("logging:\n  output: console\n"), 0644))
				t.Setenv("SURVEY_CONFIG", path)
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "console", cfg.Logging.Output)
			},
		},
		{
			name: "invalid log level",
			setupEnv: func(t *testing.T) {
				t.Setenv("SURVEY_LOGGING_LEVEL", "verbose")
			},
			wantErr: "Logging.Level",
		},
		{
			name: "invalid worker count",
			setupFile: func(t *testing.T) string {
				return writeFile(t, "pipeline:\n  workers: 0\n")
			},
			wantErr: "Pipeline.Workers",
		},
		{
			name: "malformed yaml",
			setupFile: func(t *testing.T) string {
				return writeFile(t, "pipeline: [\n")
			},
			wantErr: "failed to load config from file",
		},
		{
			name: "missing file",
			setupFile: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.yaml")
			},
			wantErr: "failed to load config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setupEnv != nil {
				tt.setupEnv(t)
			}
			path := ""
			if tt.setupFile != nil {
				path = tt.setupFile(t)
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "default is valid", mutate: func(*Config) {}},
		{
			name:    "duplicate years",
			mutate:  func(c *Config) { c.Pipeline.Years = []int{2019, 2019} },
			wantErr: "duplicate year 2019",
		},
		{
			name:    "report year outside years",
			mutate:  func(c *Config) { c.Pipeline.Years = []int{2019, 2020}; c.Pipeline.ReportYear = 2021 },
			wantErr: "report_year",
		},
		{
			name:    "no languages",
			mutate:  func(c *Config) { c.Pipeline.Languages = nil },
			wantErr: "Pipeline.Languages",
		},
		{
			name:    "unknown empty year policy",
			mutate:  func(c *Config) { c.Pipeline.EmptyYearPolicy = "skip" },
			wantErr: "Pipeline.EmptyYearPolicy",
		},
		{
			name:    "file tracing needs a trace file",
			mutate:  func(c *Config) { c.Telemetry.Tracing = "file" },
			wantErr: "Telemetry.TraceFile",
		},
		{
			name:    "file logging needs a file path",
			mutate:  func(c *Config) { c.Logging.Output = "file"; c.Logging.FilePath = "" },
			wantErr: "Logging.FilePath",
		},
		{
			name:   "console logging without file path",
			mutate: func(c *Config) { c.Logging.Output = "console"; c.Logging.FilePath = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
