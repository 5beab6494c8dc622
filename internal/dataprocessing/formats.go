package dataprocessing

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"surveycli/pkg/contracts/domain"
)

//go:embed formats.yaml
var defaultFormatsYAML []byte

// SurveyFormat describes how one survey year's export maps onto the
// canonical columns.
type SurveyFormat struct {
	Year int `yaml:"year" validate:"min=1900"`
	// Source is the export path relative to the raw data directory.
	Source string `yaml:"source" validate:"required"`
	// AllText reads every cell as uninterpreted text. The 2018 export mixes
	// types within columns.
	AllText bool `yaml:"all_text"`
	// Columns maps canonical column to source column.
	Columns map[string]string `yaml:"columns"`
}

// SourceColumn returns the export column holding a canonical column, and
// whether the format names one explicitly.
func (f SurveyFormat) SourceColumn(canonical string) (string, bool) {
	src, ok := f.Columns[canonical]
	if !ok {
		return canonical, false
	}
	return src, true
}

// FormatTable is the set of known survey layouts keyed by year.
type FormatTable struct {
	formats map[int]SurveyFormat
}

type formatsFile struct {
	Formats []SurveyFormat `yaml:"formats" validate:"required,min=1,dive"`
}

// DefaultFormats returns the built-in layouts for the 2017-2021 surveys.
func DefaultFormats() *FormatTable {
	table, err := ParseFormats(defaultFormatsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded survey formats are invalid: %v", err))
	}
	return table
}

// LoadFormats reads a format table from path, or returns the built-in one
// when path is empty.
func LoadFormats(path string) (*FormatTable, error) {
	if path == "" {
		return DefaultFormats(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read survey formats: %w", err)
	}
	table, err := ParseFormats(data)
	if err != nil {
		return nil, fmt.Errorf("invalid survey formats %s: %w", path, err)
	}
	return table, nil
}

// ParseFormats decodes and validates a YAML format table.
func ParseFormats(data []byte) (*FormatTable, error) {
	var file formatsFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse survey formats: %w", err)
	}
	if err := validator.New().Struct(file); err != nil {
		return nil, err
	}

	table := &FormatTable{formats: make(map[int]SurveyFormat, len(file.Formats))}
	for _, f := range file.Formats {
		if _, dup := table.formats[f.Year]; dup {
			return nil, fmt.Errorf("duplicate survey format for %d", f.Year)
		}
		for canonical := range f.Columns {
			if !isCanonical(canonical) {
				return nil, fmt.Errorf("survey format %d maps unknown column %q", f.Year, canonical)
			}
		}
		table.formats[f.Year] = f
	}
	return table, nil
}

// Lookup returns the layout for a year.
func (t *FormatTable) Lookup(year int) (SurveyFormat, bool) {
	f, ok := t.formats[year]
	return f, ok
}

// Years returns the known years in ascending order.
func (t *FormatTable) Years() []int {
	years := make([]int, 0, len(t.formats))
	for y := range t.formats {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func isCanonical(name string) bool {
	for _, c := range domain.CanonicalColumns {
		if c == name {
			return true
		}
	}
	return false
}
