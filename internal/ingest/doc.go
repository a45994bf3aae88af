// Package ingest implements the resilient delimited-text ingestion pipeline.
//
// Given an arbitrary, possibly malformed tabular text file (unknown byte
// encoding, unknown field delimiter, inconsistent field counts, broken
// quoting), the pipeline produces a rectangular table with a guaranteed
// fixed column count and zero dropped input rows.
//
// # Pipeline stages
//
// The stages run strictly in sequence per file; each stage fully consumes
// its input before the next begins:
//
//  1. Byte decoding: UTF-16 detection, NUL stripping, narrow-encoding
//     fallback with replacement on invalid bytes
//  2. Delimiter scoring: modal frequency and variance over a bounded
//     sample of lines
//  3. Tokenization: an ordered chain of four strategies of increasing
//     permissiveness, advanced only on failure
//  4. Width normalization: overflow fields merged, short rows padded,
//     anomalies counted, never dropped
//  5. Reporting: an immutable IngestReport attached to the Table
//
// Multiple files may be ingested concurrently; a single invocation's
// stages must not be parallelized.
//
// # Failure model
//
// Width mismatches are expected and policy-handled, never errors. The only
// fatal conditions are a total decode failure (errors.DecodeError) and the
// exhaustion of every tokenization strategy (errors.ExhaustedError, which
// carries the full attempt audit trail).
package ingest
