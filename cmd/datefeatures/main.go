package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rectcli/internal/config"
	"rectcli/internal/exporter"
	"rectcli/internal/features"
	"rectcli/internal/infrastructure"
	"rectcli/internal/ingest"
)

func main() {
	in := flag.String("in", "", "input delimited file")
	out := flag.String("out", "", "output csv path (defaults to <in>_dates.csv in data/reports)")
	column := flag.String("column", "trade_date", "name of the date column to clean")
	outColumn := flag.String("out-column", "", "name of the cleaned column (defaults to <column>_dt)")
	overwrite := flag.Bool("overwrite", false, "replace the input column instead of adding a cleaned one")
	minDate := flag.String("min-date", "", "earliest valid date, YYYY-MM-DD (defaults to 1990-01-01)")
	cols := flag.Int("cols", 0, "expected column count (defaults to configuration)")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: datefeatures -in <file> [-column <name>]")
		os.Exit(2)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("datefeatures.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	opts := ingest.OptionsFromConfig(cfg.Ingest)
	if *cols > 0 {
		opts.ExpectedCols = *cols
	}

	svc, err := ingest.NewService(opts, logger)
	if err != nil {
		logger.Error("Invalid ingest options", slog.String("error", err.Error()))
		os.Exit(1)
	}

	table, err := svc.IngestFile(infrastructure.EnsureTraceID(context.Background()), *in)
	if err != nil {
		logger.Error("Ingestion failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dateOpts := features.DateOptions{
		Column:    *column,
		Overwrite: *overwrite,
		OutColumn: *outColumn,
	}
	if *minDate != "" {
		min, err := time.Parse("2006-01-02", *minDate)
		if err != nil {
			logger.Error("Invalid -min-date", slog.String("value", *minDate))
			os.Exit(1)
		}
		dateOpts.MinValidDate = min
	}

	derived, stats, err := features.DeriveDateFeatures(table, dateOpts)
	if err != nil {
		logger.Error("Date feature derivation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dest := *out
	if dest == "" {
		base := filepath.Base(*in)
		dest = strings.TrimSuffix(base, filepath.Ext(base)) + "_dates.csv"
	}

	writer := exporter.NewCSVWriter(paths)
	if err := writer.WriteTable(dest, derived); err != nil {
		logger.Error("Failed to write output", slog.String("path", dest), slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Date features derived",
		slog.String("source", *in),
		slog.String("output", dest),
		slog.Int("parsed", stats.Parsed),
		slog.Int("missing", stats.Missing),
		slog.Int("invalidated", stats.Invalidated))

	fmt.Printf("%s: %d parsed, %d missing, %d invalidated\n",
		filepath.Base(*in), stats.Parsed, stats.Missing, stats.Invalidated)
}
