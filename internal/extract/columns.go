// Package extract turns decoded documents into normalized line-item
// rows plus a best-effort invoice number.
package extract

import (
	"log/slog"

	"github.com/joseph-ayodele/invoice-formatter/internal/document"
)

// Row maps a target column name to the matching cell text. Every
// emitted row is total over the configured column set; partial rows are
// never emitted.
type Row map[string]string

// ExtractColumns finds tables whose header row contains every target
// column and extracts those columns from each data row, concatenating
// rows in table-then-row order.
//
// A table missing even one target header contributes nothing: headers
// may repeat across continuation tables or not exist at all, and
// requiring a full header match per table avoids false-positive partial
// extraction. Rows too short to reach a target column are dropped
// silently (logged, not surfaced as errors).
func ExtractColumns(logger *slog.Logger, doc *document.Document, targetColumns []string) []Row {
	if logger == nil {
		logger = slog.Default()
	}
	var allRows []Row

	if len(doc.Tables) == 0 {
		logger.Warn("no tables found in document")
		return allRows
	}
	logger.Debug("searching tables for target columns", "tables", len(doc.Tables), "columns", targetColumns)

	for tableIndex, table := range doc.Tables {
		grid := table.Data.Grid
		if len(grid) < 1 {
			logger.Debug("skipping table: no grid data", "table", tableIndex)
			continue
		}

		// Header row is grid[0]; exact, case-sensitive match.
		columnIndices := make(map[string]int, len(targetColumns))
		for colIdx, headerCell := range grid[0] {
			if containsColumn(targetColumns, headerCell.Text) {
				columnIndices[headerCell.Text] = colIdx
			}
		}
		if len(columnIndices) != len(targetColumns) {
			logger.Debug("skipping table: not all target columns present", "table", tableIndex, "found", len(columnIndices))
			continue
		}

		tableRows := extractTableRows(logger, grid, columnIndices, targetColumns, tableIndex)
		if len(tableRows) == 0 {
			logger.Warn("found headers but no valid data rows", "table", tableIndex)
			continue
		}
		logger.Debug("extracted rows from table", "table", tableIndex, "rows", len(tableRows))
		allRows = append(allRows, tableRows...)
	}

	return allRows
}

// extractTableRows walks an eligible table's data rows (grid[1:]).
// A row is dropped as soon as one target column index falls past its
// end; remaining columns are not evaluated for it.
func extractTableRows(logger *slog.Logger, grid [][]document.Cell, columnIndices map[string]int, targetColumns []string, tableIndex int) []Row {
	var rows []Row
	for rowIdx := 1; rowIdx < len(grid); rowIdx++ {
		dataRow := grid[rowIdx]
		rowData := make(Row, len(columnIndices))
		valid := true
		for _, colName := range targetColumns {
			colIdx := columnIndices[colName]
			if colIdx >= len(dataRow) {
				logger.Warn("row too short for target column", "table", tableIndex, "row", rowIdx, "column", colName, "index", colIdx)
				valid = false
				break
			}
			rowData[colName] = dataRow[colIdx].Text
		}
		if valid && len(rowData) > 0 {
			rows = append(rows, rowData)
		}
	}
	return rows
}

func containsColumn(columns []string, name string) bool {
	for _, c := range columns {
		if c == name {
			return true
		}
	}
	return false
}
