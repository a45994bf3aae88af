package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for file paths in the application
type Paths struct {
	ExecutableDir string
	DataDir       string
	InputDir      string
	ReportsDir    string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable location
// All paths are relative to the executable directory, never the current working directory
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)

	// Directory structure:
	// <exe dir>/
	//   ├── data/
	//   │   ├── input/       (raw delimited files and workbooks)
	//   │   └── reports/     (normalized CSV output)
	//   └── logs/

	dataDir := filepath.Join(exeDir, "data")

	paths := &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		InputDir:      filepath.Join(dataDir, "input"),
		ReportsDir:    filepath.Join(dataDir, "reports"),
		LogsDir:       filepath.Join(exeDir, "logs"),
	}

	return paths, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.InputDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetReportPath returns the full path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetInputPath returns the full path for an input file
func (p *Paths) GetInputPath(filename string) string {
	return filepath.Join(p.InputDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}
