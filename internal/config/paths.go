package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations; everything is
// resolved relative to the executable directory, never the working directory.
type Paths struct {
	ExecutableDir string
	DataDir       string
	DatasetDir    string
	ReportsDir    string
	LogsDir       string

	// Well-known report files
	SummaryWorkbook string
	TopPeaksCSV     string
	YearlyTrendCSV  string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	//   data/
	//     himalaya/   (the five CSV tables)
	//     reports/    (generated workbook/CSV exports)
	//   logs/
	dataDir := filepath.Join(exeDir, "data")
	reportsDir := filepath.Join(dataDir, "reports")

	return &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		DatasetDir:    filepath.Join(dataDir, "himalaya"),
		ReportsDir:    reportsDir,
		LogsDir:       filepath.Join(exeDir, "logs"),

		SummaryWorkbook: filepath.Join(reportsDir, "expedition_summary.xlsx"),
		TopPeaksCSV:     filepath.Join(reportsDir, "top_peaks.csv"),
		YearlyTrendCSV:  filepath.Join(reportsDir, "yearly_trend.csv"),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.DatasetDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// GetLogPath returns the path for a named log file inside the logs directory
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// ResolveDatasetDir resolves the configured dataset directory. Absolute paths
// are kept as-is; relative paths are anchored at the executable directory.
func (p *Paths) ResolveDatasetDir(configured string) string {
	if configured == "" {
		return p.DatasetDir
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(p.ExecutableDir, configured)
}

// FileExists reports whether the path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
