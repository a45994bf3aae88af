package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"rectcli/internal/config"
	"rectcli/internal/exporter"
	"rectcli/internal/files"
	"rectcli/internal/infrastructure"
	"rectcli/internal/ingest"
	"rectcli/internal/validation"
	"rectcli/internal/workbook"
	"rectcli/pkg/contracts"
	"rectcli/pkg/contracts/domain"
)

func main() {
	version := flag.Bool("version", false, "print version and exit")
	in := flag.String("in", "", "input file or directory (defaults to data/input relative to executable)")
	out := flag.String("out", "", "output directory for normalized csv files (defaults to data/reports)")
	cols := flag.Int("cols", 0, "expected column count (defaults to configuration)")
	mergeInto := flag.String("merge-into", "", "header name of the overflow merge column (defaults to the last column)")
	delimiter := flag.String("delimiter", "", "delimiter override, skips inference")
	encoding := flag.String("encoding", "", "encoding override: utf-16 | utf-8-sig | utf-8 | cp1252 | latin1")
	sample := flag.Int("sample", 0, "number of lines sampled for delimiter inference")
	workers := flag.Int("workers", 4, "concurrent files when ingesting a directory")
	preview := flag.Int("preview", 0, "print the first N normalized rows of each file")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *in == "" {
		*in = paths.InputDir
	}
	if *out == "" {
		*out = paths.ReportsDir
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.Output = "both"
		cfg.Logging.FilePath = paths.GetLogPath("ingest.log")
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
	if *mergeInto != "" {
		opts.MergeInto = *mergeInto
	}
	if *delimiter != "" {
		opts.Delimiter = *delimiter
	}
	if *encoding != "" {
		opts.Encoding = *encoding
	}
	if *sample > 0 {
		opts.SampleLimit = *sample
	}

	svc, err := ingest.NewService(opts, logger)
	if err != nil {
		logger.Error("Invalid ingest options", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Starting ingestion",
		slog.String("input", *in),
		slog.String("output", *out),
		slog.Int("expected_cols", opts.ExpectedCols))

	ctx := infrastructure.EnsureTraceID(context.Background())

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateOutputDirectory(*out); err != nil {
		logger.Error("Output directory not writable", slog.String("error", err.Error()))
		os.Exit(1)
	}

	info, err := os.Stat(*in)
	if err != nil {
		logger.Error("Cannot access input", slog.String("path", *in), slog.String("error", err.Error()))
		os.Exit(1)
	}

	var tables []*domain.Table
	if info.IsDir() {
		if err := validator.ValidateInputDirectory(*in); err != nil {
			logger.Error("Invalid input directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
		tables, err = ingestDirectory(ctx, svc, logger, *in, *workers)
	} else {
		if err := validator.ValidateFile(*in); err != nil {
			logger.Error("Invalid input file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		tables, err = ingestOne(ctx, svc, *in)
	}
	if err != nil {
		logger.Error("Ingestion failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(tables) == 0 {
		logger.Warn("No ingestable files found", slog.String("input", *in))
		return
	}

	writer := exporter.NewCSVWriter(paths)
	for _, t := range tables {
		dest := filepath.Join(*out, outputName(t.Report.Source))
		if err := writer.WriteTable(dest, t); err != nil {
			logger.Error("Failed to write output",
				slog.String("path", dest),
				slog.String("error", err.Error()))
			os.Exit(1)
		}

		logger.Info("Wrote normalized table",
			slog.String("source", t.Report.Source),
			slog.String("output", dest),
			slog.String("strategy", t.Report.Strategy),
			slog.Int("rows", t.Report.RowCount),
			slog.Int("long_rows", t.Report.LongRows),
			slog.Int("short_rows", t.Report.ShortRows))

		printSummary(t)
		if *preview > 0 {
			printPreview(t, *preview)
		}
	}
}

// ingestDirectory routes delimited files through the text pipeline and
// workbooks through the spreadsheet adapter.
func ingestDirectory(ctx context.Context, svc *ingest.Service, logger *slog.Logger, dir string, workers int) ([]*domain.Table, error) {
	discovery := files.NewDiscovery(dir)

	delimited, err := discovery.FindDelimitedFiles(".")
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(delimited))
	for i, f := range delimited {
		paths[i] = f.Path
	}

	tables, err := svc.IngestFiles(ctx, paths, workers)
	if err != nil {
		return nil, err
	}

	books, err := discovery.FindWorkbookFiles(".")
	if err != nil {
		return nil, err
	}
	for _, book := range books {
		rows, sheet, err := workbook.ExtractRows(book.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", book.Path, err)
		}
		logger.Info("Extracted workbook sheet",
			slog.String("path", book.Path),
			slog.String("sheet", sheet))

		t, err := svc.IngestRows(book.Path, workbook.Origin, rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", book.Path, err)
		}
		tables = append(tables, t)
	}

	return tables, nil
}

func ingestOne(ctx context.Context, svc *ingest.Service, path string) ([]*domain.Table, error) {
	if files.IsWorkbook(path) {
		rows, _, err := workbook.ExtractRows(path)
		if err != nil {
			return nil, err
		}
		t, err := svc.IngestRows(path, workbook.Origin, rows)
		if err != nil {
			return nil, err
		}
		return []*domain.Table{t}, nil
	}

	t, err := svc.IngestFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return []*domain.Table{t}, nil
}

// outputName derives the normalized csv name from the source file name.
func outputName(source string) string {
	base := filepath.Base(source)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_normalized.csv"
}

func printSummary(t *domain.Table) {
	r := t.Report
	fmt.Printf("%s: %d rows x %d cols (encoding %s, delimiter %q, strategy %s",
		filepath.Base(r.Source), r.RowCount, r.ExpectedCols, r.Encoding, r.Delimiter, r.Strategy)
	if r.LongRows > 0 || r.ShortRows > 0 {
		fmt.Printf(", reshaped %d long / %d short", r.LongRows, r.ShortRows)
	}
	fmt.Println(")")
}

// printPreview renders the first n normalized rows as a console table.
func printPreview(t *domain.Table, n int) {
	w := table.NewWriter()
	w.SetOutputMirror(os.Stdout)
	w.SetStyle(table.StyleLight)

	header := make(table.Row, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	w.AppendHeader(header)

	for i, row := range t.Rows {
		if i >= n {
			break
		}
		out := make(table.Row, len(row))
		for j, cell := range row {
			out[j] = cell
		}
		w.AppendRow(out)
	}

	w.Render()
}
