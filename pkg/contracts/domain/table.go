package domain

import (
	"time"
)

// Table is the rectangular result of an ingest run. Every row has exactly
// len(Header) fields and the body row count equals the number of data rows
// in the source file: malformed width is reshaped, never dropped.
type Table struct {
	Header []string     `json:"header"`
	Rows   [][]string   `json:"rows"`
	Report IngestReport `json:"report"`
}

// ExpectedCols returns the fixed column count of the table.
func (t *Table) ExpectedCols() int {
	return len(t.Header)
}

// ColumnIndex returns the position of the named header column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns the values of the named column for every body row.
// The second return is false when the column does not exist.
func (t *Table) Column(name string) ([]string, bool) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values, true
}

// ParseAttempt records one tokenization strategy run. The ordered list of
// attempts forms the audit trail surfaced when every strategy fails.
type ParseAttempt struct {
	Strategy string `json:"strategy"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// IngestReport aggregates the diagnostics of a single ingest run. It is
// attached to the resulting Table as metadata, not as additional rows.
type IngestReport struct {
	RunID        string         `json:"run_id"`
	Source       string         `json:"source"`
	Encoding     string         `json:"encoding"`
	Delimiter    string         `json:"delimiter"`
	ExpectedCols int            `json:"expected_cols"`
	RowCount     int            `json:"row_count"`
	LongRows     int            `json:"long_rows"`
	ShortRows    int            `json:"short_rows"`
	Strategy     string         `json:"strategy"`
	Attempts     []ParseAttempt `json:"attempts,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	Duration     time.Duration  `json:"duration"`
}
