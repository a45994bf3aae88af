// Package files provides file system discovery utilities for the rectcli
// tools.
//
// Discovery finds ingestion candidates: delimited text files, Excel
// workbooks, and files matching arbitrary glob patterns. It also includes
// utilities for filtering files by date range and finding the latest file.
//
// Example usage:
//
//	discovery := files.NewDiscovery("/path/to/base")
//	candidates, err := discovery.FindDelimitedFiles("input")
package files
