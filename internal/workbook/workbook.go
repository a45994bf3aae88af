// Package workbook extracts tabular rows from Excel workbooks so
// spreadsheet input can share the ingestion pipeline's width-normalization
// tail.
package workbook

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Origin is reported as the encoding/strategy of workbook-sourced tables.
const Origin = "xlsx"

// ExtractRows opens an Excel workbook and returns the rows of the sheet
// that holds the tabular data, along with the sheet name. When the
// workbook has several sheets, the one with the most non-empty rows wins.
func ExtractRows(path string) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var bestRows [][]string
	var bestSheet string
	bestCount := 0

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		count := countDataRows(rows)
		if count > bestCount {
			bestRows = rows
			bestSheet = sheet
			bestCount = count
		}
	}

	if bestCount == 0 {
		return nil, "", fmt.Errorf("no sheet with tabular data in %s", path)
	}

	slog.Debug("Workbook sheet selected",
		slog.String("path", path),
		slog.String("sheet", bestSheet),
		slog.Int("rows", bestCount))

	return trimTrailingEmpty(bestRows), bestSheet, nil
}

// countDataRows counts rows that contain at least one non-blank cell.
func countDataRows(rows [][]string) int {
	count := 0
	for _, row := range rows {
		if rowHasData(row) {
			count++
		}
	}
	return count
}

func rowHasData(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// trimTrailingEmpty drops fully empty rows from the tail of the sheet.
// Interior empty rows are kept: they are real data rows for the no-loss
// pipeline to reshape.
func trimTrailingEmpty(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && !rowHasData(rows[end-1]) {
		end--
	}
	return rows[:end]
}
