package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "surveycli/internal/errors"
)

// EnvPrefix namespaces every environment override, e.g. SURVEY_PIPELINE_WORKERS.
const EnvPrefix = "SURVEY"

// ConfigFileEnv names the environment variable that points at a YAML config file.
const ConfigFileEnv = "SURVEY_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration. A relative FilePath is
// resolved inside paths.logs_dir.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration. Relative paths are
// resolved against BaseDir, which itself defaults to the working directory.
type PathsConfig struct {
	BaseDir      string `yaml:"base_dir" envconfig:"BASE_DIR"`
	RawDir       string `yaml:"raw_dir" envconfig:"RAW_DIR" validate:"required"`
	ProcessedCSV string `yaml:"processed_csv" envconfig:"PROCESSED_CSV" validate:"required"`
	ReportsDir   string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
	MetricsFile  string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	FormatsFile  string `yaml:"formats_file" envconfig:"FORMATS_FILE"`
}

// PipelineConfig controls the survey processing pipeline
type PipelineConfig struct {
	Years           []int    `yaml:"years" envconfig:"YEARS" validate:"required,min=1,dive,min=1900"`
	Languages       []string `yaml:"languages" envconfig:"LANGUAGES" validate:"required,min=1,dive,required"`
	Workers         int      `yaml:"workers" envconfig:"WORKERS" validate:"min=1,max=256"`
	EmptyYearPolicy string   `yaml:"empty_year_policy" envconfig:"EMPTY_YEAR_POLICY" validate:"oneof=error zero nan"`
	ForceReprocess  bool     `yaml:"force_reprocess" envconfig:"FORCE_REPROCESS"`
	NullTokens      []string `yaml:"null_tokens" envconfig:"NULL_TOKENS"`
	ReportYear      int      `yaml:"report_year" envconfig:"REPORT_YEAR"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Tracing     string `yaml:"tracing" envconfig:"TRACING" validate:"oneof=stdout file none"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE" validate:"required_if=Tracing file"`
	Metrics     bool   `yaml:"metrics" envconfig:"METRICS"`
}

// Load builds the configuration from defaults, an optional YAML file, and
// SURVEY_* environment variables, in increasing order of precedence. An empty
// path falls back to SURVEY_CONFIG and then the usual config locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", path)
		}
	}

	// envconfig leaves fields without a matching variable untouched, so the
	// file values survive unless overridden.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration and normalizes a few values in place
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))
	c.Pipeline.EmptyYearPolicy = strings.ToLower(strings.TrimSpace(c.Pipeline.EmptyYearPolicy))
	c.Telemetry.Tracing = strings.ToLower(strings.TrimSpace(c.Telemetry.Tracing))

	v := validator.New()
	if err := v.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}

	seen := make(map[int]bool, len(c.Pipeline.Years))
	for _, y := range c.Pipeline.Years {
		if seen[y] {
			return fmt.Errorf("pipeline.years: duplicate year %d", y)
		}
		seen[y] = true
	}
	if c.Pipeline.ReportYear != 0 && !seen[c.Pipeline.ReportYear] {
		return fmt.Errorf("pipeline.report_year: %d is not one of the configured years", c.Pipeline.ReportYear)
	}

	return nil
}

// formatFieldError renders a validator error as "namespace: rule"
func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	if fe.Param() != "" {
		return fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s: failed %s", field, fe.Tag())
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(ConfigFileEnv); p != "" {
		return p
	}

	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "survey.log",
		},
		Paths: PathsConfig{
			RawDir:       "data",
			ProcessedCSV: "data/processed_survey_data.csv",
			ReportsDir:   "data/reports",
			LogsDir:      "logs",
			MetricsFile:  "data/reports/survey_metrics.prom",
		},
		Pipeline: PipelineConfig{
			Years:           append([]int(nil), DefaultYears...),
			Languages:       []string{"Python", "R", "Julia"},
			Workers:         1,
			EmptyYearPolicy: EmptyYearPolicyError,
			NullTokens:      append([]string(nil), DefaultNullTokens...),
			ReportYear:      2021,
		},
		Telemetry: TelemetryConfig{
			ServiceName: ServiceName,
			Tracing:     "none",
			Metrics:     true,
		},
	}
}
