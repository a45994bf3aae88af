// Package testutil provides log-capture helpers shared by the package
// tests.
package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// Record is one captured log entry with its attributes flattened into a
// single map.
type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// capture is the shared buffer behind every handler derived by WithAttrs.
type capture struct {
	mu      sync.Mutex
	records []Record
}

// CaptureHandler buffers slog records so tests can assert on pipeline
// logging. Handlers derived through logger.With share the same buffer, so
// pre-bound attributes such as the ingest source are captured alongside
// the per-record ones.
type CaptureHandler struct {
	buf   *capture
	attrs []slog.Attr
	t     *testing.T
}

// NewTestLogger returns a logger whose output is captured for assertions.
// Every record is also echoed to the test log.
func NewTestLogger(t *testing.T) (*slog.Logger, *CaptureHandler) {
	h := &CaptureHandler{buf: &capture{}, t: t}
	return slog.New(h), h
}

// Enabled implements slog.Handler. Tests capture every level.
func (h *CaptureHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler.
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.buf.mu.Lock()
	h.buf.records = append(h.buf.records, Record{
		Level:   r.Level,
		Message: r.Message,
		Attrs:   attrs,
	})
	h.buf.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

// WithAttrs implements slog.Handler. The derived handler writes into the
// same buffer with the extra attributes pre-bound.
func (h *CaptureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &CaptureHandler{buf: h.buf, attrs: merged, t: h.t}
}

// WithGroup implements slog.Handler. Groups are not used by this codebase
// and are ignored.
func (h *CaptureHandler) WithGroup(string) slog.Handler {
	return h
}

// Records returns a copy of everything captured so far.
func (h *CaptureHandler) Records() []Record {
	h.buf.mu.Lock()
	defer h.buf.mu.Unlock()

	out := make([]Record, len(h.buf.records))
	copy(out, h.buf.records)
	return out
}

// RecordsAt returns the captured records at the given level.
func (h *CaptureHandler) RecordsAt(level slog.Level) []Record {
	var out []Record
	for _, r := range h.Records() {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

// ContainsMessage reports whether any captured message contains s.
func (h *CaptureHandler) ContainsMessage(s string) bool {
	for _, r := range h.Records() {
		if strings.Contains(r.Message, s) {
			return true
		}
	}
	return false
}

// ContainsAttr reports whether any captured record carries the attribute.
func (h *CaptureHandler) ContainsAttr(key string, value any) bool {
	for _, r := range h.Records() {
		if v, ok := r.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}
