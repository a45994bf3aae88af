// Package features derives date feature columns from a normalized table.
//
// Given a column holding mixed-format trade dates, the package normalizes
// null-like tokens, parses YYYYMMDD and general date layouts, invalidates
// epoch defaults and absurdly old values, and appends year/month/yyyymm
// feature columns alongside a missing flag. It interprets no other column
// semantics; the table stays rectangular throughout.
package features

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rectcli/pkg/contracts/domain"
)

// DefaultMinValidDate invalidates epoch defaults and absurdly old dates.
var DefaultMinValidDate = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

// TwoDigitYearPivot defines how 2-digit years are interpreted: parsed years
// more than this many years in the future are moved to the previous century.
const TwoDigitYearPivot = 20

// nullLikeTokens are normalized to missing before any parsing.
var nullLikeTokens = map[string]bool{
	"":     true,
	"0":    true,
	"0.0":  true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"none": true,
}

// Date layouts split by year format for proper 2-digit year handling.
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"2006-01-02 15:04:05", "2006-01-02T15:04:05",
	}
)

// DateOptions configures a date-feature derivation pass.
type DateOptions struct {
	// Column is the name of the input column to clean.
	Column string
	// MinValidDate invalidates anything earlier; zero means DefaultMinValidDate.
	MinValidDate time.Time
	// Overwrite replaces the input column with the cleaned ISO date.
	Overwrite bool
	// OutColumn names the cleaned column when Overwrite is false; empty
	// means "<Column>_dt".
	OutColumn string
}

// DateStats summarizes a derivation pass.
type DateStats struct {
	Parsed      int
	Missing     int
	Invalidated int
}

// DeriveDateFeatures cleans the configured date column and appends the
// feature columns <dest>_is_missing, <dest>_year, <dest>_month,
// <dest>_yyyymm, and <dest>_period. The input table is not mutated; the
// returned table has the same row count with a wider header.
func DeriveDateFeatures(t *domain.Table, opts DateOptions) (*domain.Table, DateStats, error) {
	colIdx := t.ColumnIndex(opts.Column)
	if colIdx < 0 {
		return nil, DateStats{}, fmt.Errorf("column %q not found in table", opts.Column)
	}

	minValid := opts.MinValidDate
	if minValid.IsZero() {
		minValid = DefaultMinValidDate
	}

	destCol := opts.Column
	if !opts.Overwrite {
		destCol = opts.OutColumn
		if destCol == "" {
			destCol = opts.Column + "_dt"
		}
	}

	header := make([]string, 0, len(t.Header)+6)
	header = append(header, t.Header...)
	destIdx := colIdx
	if !opts.Overwrite {
		destIdx = len(header)
		header = append(header, destCol)
	}
	header = append(header,
		destCol+"_is_missing",
		destCol+"_year",
		destCol+"_month",
		destCol+"_yyyymm",
		destCol+"_period",
	)

	var stats DateStats
	rows := make([][]string, len(t.Rows))

	for i, row := range t.Rows {
		out := make([]string, 0, len(header))
		out = append(out, row...)
		if !opts.Overwrite {
			out = append(out, "") // cleaned column, filled below
		}

		parsed, ok := parseDate(row[colIdx], minValid, &stats)
		if ok {
			stats.Parsed++
			out[destIdx] = parsed.Format("2006-01-02")
			out = append(out,
				"false",
				strconv.Itoa(parsed.Year()),
				strconv.Itoa(int(parsed.Month())),
				parsed.Format("200601"),
				parsed.Format("2006-01"),
			)
		} else {
			stats.Missing++
			out[destIdx] = ""
			out = append(out, "true", "", "", "", "")
		}

		rows[i] = out
	}

	return &domain.Table{Header: header, Rows: rows, Report: t.Report}, stats, nil
}

// parseDate parses one raw cell value. The fast path handles 8-digit
// YYYYMMDD values; everything else goes through the layout list. Dates
// before minValid are treated as invalid sentinels, not real data.
func parseDate(raw string, minValid time.Time, stats *DateStats) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if nullLikeTokens[strings.ToLower(s)] {
		return time.Time{}, false
	}

	parsed, ok := parseAnyLayout(s)
	if !ok {
		return time.Time{}, false
	}

	if parsed.Before(minValid) {
		stats.Invalidated++
		return time.Time{}, false
	}

	return parsed, true
}

func parseAnyLayout(s string) (time.Time, bool) {
	if isEightDigits(s) {
		if t, err := time.Parse("20060102", s); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	// Two-digit years use a pivot: Go maps 00-68 to 2000-2068, so years
	// beyond currentYear+pivot belong to the previous century.
	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

func isEightDigits(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
