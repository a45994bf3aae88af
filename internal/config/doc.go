// Package config provides centralized configuration management for the
// rectcli tools. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration
// values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. config.yaml / configs/config.yaml
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern RECT_* for namespacing:
//
//	RECT_INGEST_EXPECTED_COLS=106
//	RECT_INGEST_SAMPLE_LIMIT=200
//	RECT_LOGGING_LEVEL=info
//	RECT_LOGGING_OUTPUT=both
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	reportPath := paths.GetReportPath("normalized.csv")
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
