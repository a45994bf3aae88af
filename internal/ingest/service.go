package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rectcli/internal/config"
	apperrors "rectcli/internal/errors"
	"rectcli/pkg/contracts/domain"
)

// DefaultExpectedCols matches the reference dataset this pipeline was built
// for; every caller may override it.
const DefaultExpectedCols = 106

// DefaultSampleLimit bounds the number of non-blank lines used for
// delimiter scoring.
const DefaultSampleLimit = 200

// Options are the caller-supplied overrides for one ingest service.
// Delimiter and Encoding, when set, skip inference and detection.
type Options struct {
	ExpectedCols int `validate:"required,min=1"`
	SampleLimit  int `validate:"min=0"`
	MergeInto    string
	Delimiter    string `validate:"omitempty,len=1"`
	Encoding     string `validate:"omitempty,oneof=utf-16 utf-8-sig utf-8 cp1252 latin1"`
}

// OptionsFromConfig builds Options from the loaded ingest configuration.
func OptionsFromConfig(cfg config.IngestConfig) Options {
	return Options{
		ExpectedCols: cfg.ExpectedCols,
		SampleLimit:  cfg.SampleLimit,
		MergeInto:    cfg.MergeInto,
		Delimiter:    cfg.Delimiter,
		Encoding:     cfg.Encoding,
	}
}

var validate = validator.New()

// Service runs the ingestion pipeline with a fixed set of options. A
// single Service is safe for concurrent use across files; the five stages
// of one invocation always run sequentially.
type Service struct {
	opts   Options
	logger *slog.Logger
}

// NewService validates the options and returns a ready service.
func NewService(opts Options, logger *slog.Logger) (*Service, error) {
	if opts.ExpectedCols == 0 {
		opts.ExpectedCols = DefaultExpectedCols
	}
	if opts.SampleLimit == 0 {
		opts.SampleLimit = DefaultSampleLimit
	}
	if err := validate.Struct(opts); err != nil {
		return nil, apperrors.NewValidationError("invalid ingest options", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{opts: opts, logger: logger}, nil
}

// Options returns the resolved options the service runs with.
func (s *Service) Options() Options {
	return s.opts
}

// IngestFile reads and ingests a single file from durable storage. The
// file handle is held only for the initial byte read and released on every
// exit path.
func (s *Service) IngestFile(ctx context.Context, path string) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read %s", path), err)
	}

	return s.IngestBytes(ctx, path, raw)
}

// IngestBytes runs the full pipeline over raw bytes already in memory.
func (s *Service) IngestBytes(ctx context.Context, source string, raw []byte) (*domain.Table, error) {
	started := time.Now()
	logger := s.logger.With(slog.String("source", source))

	// Stage 1: byte decoding
	var text, encodingUsed string
	var err error
	if s.opts.Encoding != "" {
		text, encodingUsed, err = decodeBytesAs(raw, s.opts.Encoding)
	} else {
		text, encodingUsed, err = decodeBytes(raw)
	}
	if err != nil {
		logger.Error("Decode failed", slog.String("error", err.Error()))
		return nil, err
	}

	// Stage 2: delimiter inference over a bounded sample
	sample := sampleLines(text, s.opts.SampleLimit)
	var delim rune
	if s.opts.Delimiter != "" {
		delim = []rune(s.opts.Delimiter)[0]
	} else {
		delim = inferDelimiter(sample)
	}
	modalCols := modalColumnCount(sample, delim)

	logger.Debug("Pipeline input analyzed",
		slog.String("encoding", encodingUsed),
		slog.String("delimiter", string(delim)),
		slog.Int("sample_lines", len(sample)),
		slog.Int("modal_cols", modalCols))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: tokenization through the fallback chain
	result, err := newOrchestrator(delim, modalCols).run(text)
	if err != nil {
		logger.Error("All tokenization strategies failed", slog.String("error", err.Error()))
		return nil, err
	}

	// Stage 4: width normalization
	header, body := result.rows[0], result.rows[1:]
	normHeader, normRows, stats := normalizeWidth(header, body, s.opts.ExpectedCols, s.opts.MergeInto)

	// Stage 5: reporting
	report := domain.IngestReport{
		RunID:        uuid.New().String(),
		Source:       source,
		Encoding:     encodingUsed,
		Delimiter:    string(delim),
		ExpectedCols: s.opts.ExpectedCols,
		RowCount:     len(normRows),
		LongRows:     stats.longRows,
		ShortRows:    stats.shortRows,
		Strategy:     result.strategy,
		Attempts:     result.attempts,
		StartedAt:    started,
		Duration:     time.Since(started),
	}

	logger.Info("Ingest complete",
		slog.String("run_id", report.RunID),
		slog.String("encoding", report.Encoding),
		slog.String("delimiter", report.Delimiter),
		slog.String("strategy", report.Strategy),
		slog.Int("rows", report.RowCount),
		slog.Int("long_rows", report.LongRows),
		slog.Int("short_rows", report.ShortRows))

	return &domain.Table{Header: normHeader, Rows: normRows, Report: report}, nil
}

// IngestRows normalizes rows obtained outside the text pipeline (for
// example from a spreadsheet adapter) so non-delimited sources share the
// same no-loss tail.
func (s *Service) IngestRows(source, origin string, rows [][]string) (*domain.Table, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("no rows extracted from %s", source), nil)
	}

	started := time.Now()
	normHeader, normRows, stats := normalizeWidth(rows[0], rows[1:], s.opts.ExpectedCols, s.opts.MergeInto)

	report := domain.IngestReport{
		RunID:        uuid.New().String(),
		Source:       source,
		Encoding:     origin,
		ExpectedCols: s.opts.ExpectedCols,
		RowCount:     len(normRows),
		LongRows:     stats.longRows,
		ShortRows:    stats.shortRows,
		Strategy:     origin,
		StartedAt:    started,
		Duration:     time.Since(started),
	}

	return &domain.Table{Header: normHeader, Rows: normRows, Report: report}, nil
}

// IngestFiles ingests independent files concurrently. Each file runs the
// strictly sequential pipeline on its own; there is no shared state across
// invocations. Results keep the order of paths. The first error cancels
// the remaining work.
func (s *Service) IngestFiles(ctx context.Context, paths []string, workers int) ([]*domain.Table, error) {
	if workers <= 0 {
		workers = 1
	}

	tables := make([]*domain.Table, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			table, err := s.IngestFile(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			tables[i] = table
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}
