package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// delimitedExtensions are the file extensions treated as delimited-text
// ingestion candidates.
var delimitedExtensions = map[string]bool{
	".csv": true,
	".tsv": true,
	".psv": true,
	".txt": true,
}

// workbookExtensions are the spreadsheet extensions routed through the
// workbook adapter instead of the text pipeline. Legacy BIFF .xls files
// are excluded: the extractor reads OOXML workbooks only.
var workbookExtensions = map[string]bool{
	".xlsx": true,
}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindDelimitedFiles finds all delimited-text candidates in the specified
// directory, sorted by modification time (oldest first).
func (d *Discovery) FindDelimitedFiles(dir string) ([]FileInfo, error) {
	return d.findByExtension(dir, delimitedExtensions)
}

// FindWorkbookFiles finds all Excel workbooks in the specified directory,
// sorted by modification time (oldest first).
func (d *Discovery) FindWorkbookFiles(dir string) ([]FileInfo, error) {
	return d.findByExtension(dir, workbookExtensions)
}

// IsWorkbook reports whether the path has a spreadsheet extension.
func IsWorkbook(path string) bool {
	return workbookExtensions[strings.ToLower(filepath.Ext(path))]
}

func (d *Discovery) findByExtension(dir string, extensions map[string]bool) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !extensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.Before(files[j].ModTime)
	})

	return files, nil
}

// FindFilesByPattern finds files matching a glob pattern
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)
	searchPattern := filepath.Join(fullPath, pattern)

	matches, err := filepath.Glob(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			files = append(files, FileInfo{
				Path:    match,
				Name:    filepath.Base(match),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
		}
	}

	return files, nil
}

// resolve joins relative directories onto the base path.
func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}

// FilterFilesByDateRange filters files based on modification time
func FilterFilesByDateRange(files []FileInfo, startDate, endDate time.Time) []FileInfo {
	var filtered []FileInfo
	for _, file := range files {
		if file.ModTime.After(startDate) && file.ModTime.Before(endDate) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}
