// Package exporter provides CSV export functionality for normalized tables.
//
// CSVWriter is the core writer with support for headers, append mode,
// streaming, and an optional UTF-8 BOM for Excel compatibility. WriteTable
// is the high-level entry used by the CLI tools to persist a
// domain.Table produced by the ingestion pipeline.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//	err := writer.WriteTable("normalized.csv", table)
package exporter
