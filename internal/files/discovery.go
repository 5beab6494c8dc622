package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"surveycli/internal/errors"
)

// SurveyDirPrefix names the per-year export directories, e.g. developer_survey_2019.
const SurveyDirPrefix = "developer_survey_"

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

func (d *Discovery) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(d.basePath, path)
}

// FindSurveyExport locates a year's export. The configured source is used
// when present; otherwise the same file with the other supported extension
// (.csv or .xlsx) is tried.
func (d *Discovery) FindSurveyExport(year int, source string) (FileInfo, error) {
	candidates := []string{d.resolve(source)}
	ext := strings.ToLower(filepath.Ext(source))
	stem := strings.TrimSuffix(candidates[0], filepath.Ext(source))
	switch ext {
	case ".csv":
		candidates = append(candidates, stem+".xlsx")
	case ".xlsx":
		candidates = append(candidates, stem+".csv")
	}

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		return FileInfo{
			Path:    path,
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}, nil
	}

	return FileInfo{}, errors.NewNotFoundError(fmt.Sprintf("survey export for %d", year)).
		WithContext("path", candidates[0])
}

// ListSurveyYears returns the years that have a developer_survey_YYYY
// directory under dir, in ascending order.
func (d *Discovery) ListSurveyYears(dir string) ([]int, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var years []int
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), SurveyDirPrefix) {
			continue
		}
		year, err := strconv.Atoi(strings.TrimPrefix(entry.Name(), SurveyDirPrefix))
		if err != nil {
			continue
		}
		years = append(years, year)
	}

	sort.Ints(years)
	return years, nil
}
