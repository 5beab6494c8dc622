package operations

import (
	"fmt"
	"sort"

	"surveycli/internal/config"
	"surveycli/internal/dataprocessing"
	"surveycli/pkg/contracts/domain"
)

// Config holds the settings the survey steps run with
type Config struct {
	Years           []int
	Languages       []domain.Language
	Workers         int
	EmptyYearPolicy string
	NullTokens      []string
	ForceReprocess  bool
	ReportYear      int

	RawDir       string
	ProcessedCSV string
	Formats      *dataprocessing.FormatTable
}

// NewConfig returns the default step configuration
func NewConfig() *Config {
	return &Config{
		Years:           append([]int(nil), config.DefaultYears...),
		Languages:       append([]domain.Language(nil), domain.DefaultLanguages...),
		Workers:         1,
		EmptyYearPolicy: config.EmptyYearPolicyError,
		NullTokens:      append([]string(nil), config.DefaultNullTokens...),
		RawDir:          "data",
		ProcessedCSV:    "data/" + config.ProcessedFileName,
		Formats:         dataprocessing.DefaultFormats(),
	}
}

// FromAppConfig builds the step configuration from application config and
// resolved paths. The survey format table is loaded from paths.FormatsFile
// when set.
func FromAppConfig(cfg *config.Config, paths *config.Paths) (*Config, error) {
	formats, err := dataprocessing.LoadFormats(paths.FormatsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load survey formats: %w", err)
	}

	languages := make([]domain.Language, 0, len(cfg.Pipeline.Languages))
	for _, name := range cfg.Pipeline.Languages {
		languages = append(languages, domain.ParseLanguage(name))
	}

	c := &Config{
		Years:           append([]int(nil), cfg.Pipeline.Years...),
		Languages:       languages,
		Workers:         cfg.Pipeline.Workers,
		EmptyYearPolicy: cfg.Pipeline.EmptyYearPolicy,
		NullTokens:      append([]string(nil), cfg.Pipeline.NullTokens...),
		ForceReprocess:  cfg.Pipeline.ForceReprocess,
		ReportYear:      cfg.Pipeline.ReportYear,
		RawDir:          paths.RawDir,
		ProcessedCSV:    paths.ProcessedCSV,
		Formats:         formats,
	}
	return c, c.Validate()
}

// Validate checks the configuration and normalizes defaults in place
func (c *Config) Validate() error {
	if len(c.Years) == 0 {
		return fmt.Errorf("no survey years configured")
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("no languages configured")
	}
	if c.ProcessedCSV == "" {
		return fmt.Errorf("processed table path is required")
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Formats == nil {
		c.Formats = dataprocessing.DefaultFormats()
	}
	if c.ReportYear == 0 {
		years := c.SortedYears()
		c.ReportYear = years[len(years)-1]
	}
	return nil
}

// SortedYears returns the configured years in ascending order
func (c *Config) SortedYears() []int {
	years := append([]int(nil), c.Years...)
	sort.Ints(years)
	return years
}
