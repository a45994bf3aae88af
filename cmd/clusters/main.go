package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"rectcli/internal/clusters"
	"rectcli/internal/config"
	"rectcli/internal/infrastructure"
	"rectcli/internal/ingest"
)

func main() {
	in := flag.String("in", "", "input delimited file")
	idCol := flag.String("id-col", "trade_id", "trade identifier column")
	relCol := flag.String("rel-col", "related_trade", "related trade column")
	out := flag.String("out", "", "output json path (defaults to stdout)")
	cols := flag.Int("cols", 0, "expected column count (defaults to configuration)")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: clusters -in <file> [-id-col <name>] [-rel-col <name>]")
		os.Exit(2)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("clusters.log")
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

	groups, err := clusters.FromTable(table, *idCol, *relCol)
	if err != nil {
		logger.Error("Cluster extraction failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Clusters extracted",
		slog.String("source", *in),
		slog.Int("clusters", len(groups)))

	dest := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Error("Cannot create output file",
				slog.String("path", *out),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		dest = f
	}

	enc := json.NewEncoder(dest)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{
		"source":   filepath.Base(*in),
		"clusters": groups,
	}); err != nil {
		logger.Error("Failed to encode clusters", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
