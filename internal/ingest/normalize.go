package ingest

import (
	"fmt"
	"strings"
)

// placeholderHeader synthesizes a name for a padded header position.
func placeholderHeader(i int) string {
	return fmt.Sprintf("__placeholder_%d", i)
}

// widthStats tallies the rows reshaped by normalizeWidth. These are
// diagnostics, not errors.
type widthStats struct {
	longRows  int
	shortRows int
}

// resolveMergeTarget returns the index of the overflow-merge column: the
// position of mergeInto in the normalized header when present, otherwise
// the last column. Computed once and threaded through, so the default
// lives in exactly one place.
func resolveMergeTarget(header []string, mergeInto string) int {
	if mergeInto != "" {
		for i, h := range header {
			if h == mergeInto {
				return i
			}
		}
	}
	return len(header) - 1
}

// normalizeHeader forces the header row to exactly expectedCols names:
// short headers are padded with synthesized placeholders, long headers are
// truncated. Truncation is policy only here, because header identity beyond
// expectedCols is meaningless; body fields are never truncated.
func normalizeHeader(header []string, expectedCols int) []string {
	out := make([]string, 0, expectedCols)
	out = append(out, header...)
	if len(out) > expectedCols {
		return out[:expectedCols]
	}
	for i := len(out); i < expectedCols; i++ {
		out = append(out, placeholderHeader(i-len(header)))
	}
	return out
}

// mergeOverflow reshapes a row longer than expectedCols. The overflow is
// comma-joined into the merge-target column with trailing empty fields
// trimmed; no field value is ever discarded and every field is joined
// exactly once, the field at the split position included.
func mergeOverflow(row []string, expectedCols, targetIdx int) []string {
	if targetIdx == expectedCols-1 {
		kept := make([]string, expectedCols)
		copy(kept, row[:expectedCols-1])
		kept[expectedCols-1] = strings.TrimRight(strings.Join(row[expectedCols-1:], ","), ",")
		return kept
	}

	// Merge target sits before the last column: the row keeps its first
	// expectedCols fields in place and only the fields beyond that width
	// are folded into the target.
	kept := make([]string, expectedCols)
	copy(kept, row[:expectedCols])
	merged := kept[targetIdx] + "," + strings.Join(row[expectedCols:], ",")
	kept[targetIdx] = strings.TrimRight(merged, ",")
	return kept
}

// padShort right-pads a row shorter than expectedCols with empty fields.
func padShort(row []string, expectedCols int) []string {
	kept := make([]string, expectedCols)
	copy(kept, row)
	return kept
}

// normalizeWidth forces every body row to exactly expectedCols fields.
// Rows already at width pass through unchanged, long rows are merged, short
// rows are padded; the body row count never changes. Re-normalizing an
// already rectangular result yields an identical table.
func normalizeWidth(header []string, body [][]string, expectedCols int, mergeInto string) ([]string, [][]string, widthStats) {
	normHeader := normalizeHeader(header, expectedCols)
	targetIdx := resolveMergeTarget(normHeader, mergeInto)

	var stats widthStats
	rows := make([][]string, 0, len(body))

	for _, row := range body {
		switch {
		case len(row) == expectedCols:
			rows = append(rows, row)
		case len(row) > expectedCols:
			rows = append(rows, mergeOverflow(row, expectedCols, targetIdx))
			stats.longRows++
		default:
			rows = append(rows, padShort(row, expectedCols))
			stats.shortRows++
		}
	}

	return normHeader, rows, stats
}
