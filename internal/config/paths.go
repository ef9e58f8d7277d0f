package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved application paths
type Paths struct {
	BaseDir      string
	InputDir     string
	DownloadsDir string
	ReportsDir   string
	LogsDir      string
	ReportFile   string
}

// ResolvePaths resolves every configured path against BaseDir. An empty
// BaseDir means the current working directory. Absolute paths are kept.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
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
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(base, p)
	}

	reports := resolve(c.Paths.ReportsDir)
	report := c.Paths.ReportFile
	if !filepath.IsAbs(report) {
		report = filepath.Join(reports, report)
	}

	return &Paths{
		BaseDir:      base,
		InputDir:     resolve(c.Paths.InputDir),
		DownloadsDir: resolve(c.Paths.DownloadsDir),
		ReportsDir:   reports,
		LogsDir:      resolve(c.Paths.LogsDir),
		ReportFile:   report,
	}, nil
}

// EnsureDirectories creates all output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DownloadsDir,
		p.ReportsDir,
		p.LogsDir,
	}

	logger := slog.Default()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// LogPathResolution logs every resolved path at debug level
func (p *Paths) LogPathResolution() {
	slog.Default().Debug("Path resolution",
		slog.String("base_dir", p.BaseDir),
		slog.String("input_dir", p.InputDir),
		slog.String("downloads_dir", p.DownloadsDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("report_file", p.ReportFile))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
