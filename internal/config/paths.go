package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved file system locations used by one run.
// Every path comes from configuration; nothing is derived from the
// executable location.
type Paths struct {
	BaseDir      string
	RawDir       string
	ProcessedCSV string
	ReportsDir   string
	LogsDir      string
	MetricsFile  string
	FormatsFile  string
}

// NewPaths resolves the configured paths. Relative entries are joined onto
// BaseDir, or the working directory when BaseDir is empty.
func NewPaths(cfg PathsConfig) (*Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	return &Paths{
		BaseDir:      base,
		RawDir:       resolve(cfg.RawDir),
		ProcessedCSV: resolve(cfg.ProcessedCSV),
		ReportsDir:   resolve(cfg.ReportsDir),
		LogsDir:      resolve(cfg.LogsDir),
		MetricsFile:  resolve(cfg.MetricsFile),
		FormatsFile:  resolve(cfg.FormatsFile),
	}, nil
}

// GetReportPath returns a path inside the reports directory
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath returns a path inside the logs directory. Absolute paths are
// returned unchanged.
func (p *Paths) GetLogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	if p.LogsDir == "" {
		return filepath.Join(p.BaseDir, filename)
	}
	return filepath.Join(p.LogsDir, filename)
}

// EnsureDirectories creates the directories that receive output
func (p *Paths) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(p.ProcessedCSV),
		p.ReportsDir,
	}
	if p.LogsDir != "" {
		dirs = append(dirs, p.LogsDir)
	}
	if p.MetricsFile != "" {
		dirs = append(dirs, filepath.Dir(p.MetricsFile))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("raw_dir", p.RawDir),
		slog.String("processed_csv", p.ProcessedCSV),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("metrics_file", p.MetricsFile),
		slog.String("formats_file", p.FormatsFile))
}
