package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/invoice-formatter/constants"
	"github.com/joseph-ayodele/invoice-formatter/internal/extract"
	"github.com/joseph-ayodele/invoice-formatter/internal/store"
)

// Service is a tiny façade over the object store that renders the
// output namespace's extraction results into one XLSX workbook.
type Service struct {
	store  store.ObjectStore
	logger *slog.Logger
}

func NewService(st store.ObjectStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// ExportLineItemsXLSX returns an XLSX workbook (as bytes) holding one
// row per extracted line item across every result in the output
// namespace. Columns: source file, invoice number, then the configured
// target columns in order. Results that fail to decode are skipped
// with a warning, not fatal.
func (s *Service) ExportLineItemsXLSX(ctx context.Context, targetColumns []string) ([]byte, error) {
	start := time.Now()

	keys, err := s.store.List(ctx, constants.OutputPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Line Items"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defaultIndex, _ := f.GetSheetIndex("Sheet1"); defaultIndex != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := append([]string{"Source File", "Invoice Number"}, targetColumns...)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	results := 0
	for _, key := range keys {
		data, err := s.store.Get(ctx, key)
		if err != nil {
			s.logger.Warn("skipping unreadable result", "key", key, "error", err)
			continue
		}
		var res extract.Result
		if err := json.Unmarshal(data, &res); err != nil {
			s.logger.Warn("skipping malformed result", "key", key, "error", err)
			continue
		}
		results++

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		for _, item := range res.Items {
			write(1, path.Base(key))
			write(2, res.InvoiceNumber)
			for i, col := range targetColumns {
				write(3+i, item[col])
			}
			row++
		}
	}

	// Widen the identity columns
	_ = f.SetColWidth(sheet, "A", "A", 32) // source file
	_ = f.SetColWidth(sheet, "B", "B", 20) // invoice number

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"results", results,
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
