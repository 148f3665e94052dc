package extract

import (
	"encoding/json"
	"log/slog"
	"path"

	"github.com/joseph-ayodele/invoice-formatter/constants"
	"github.com/joseph-ayodele/invoice-formatter/internal/document"
)

// Result is the extraction output for one document: a best-effort
// invoice number (possibly empty) plus the extracted line items
// (possibly none). A sparse Result is still a valid success.
type Result struct {
	InvoiceNumber string `json:"invoice_number"`
	Items         []Row  `json:"items"`
}

// Encode renders the result as pretty-printed UTF-8 JSON. Identical
// inputs always encode to identical bytes.
func (r *Result) Encode() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Processor composes invoice-number and column extraction into one
// per-file transform. The target column set is fixed at construction.
type Processor struct {
	targetColumns []string
	logger        *slog.Logger
}

func NewProcessor(targetColumns []string, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{targetColumns: targetColumns, logger: logger}
}

// TargetColumns returns the configured column set, in order.
func (p *Processor) TargetColumns() []string {
	return p.targetColumns
}

// Process decodes the bytes fetched for key and runs both extractors.
// A key without a recognized document-JSON extension yields (nil, nil):
// not applicable, not an error. Malformed bytes yield a DecodeError so
// the caller routes the object to the error destination. Extraction
// shortfalls (no eligible table, no invoice marker) still yield a
// non-nil Result.
func (p *Processor) Process(key string, data []byte) (*Result, error) {
	filename := path.Base(key)
	p.logger.Info("processing file", "key", key, "bytes", len(data))

	if !constants.IsDocumentJSON(filename) {
		p.logger.Warn("not a document JSON file, skipping", "filename", filename)
		return nil, nil
	}

	doc, err := document.Decode(filename, data)
	if err != nil {
		p.logger.Error("failed to parse document JSON", "filename", filename, "error", err)
		return nil, err
	}

	invoiceNumber := ExtractInvoiceNumber(p.logger, doc)
	if invoiceNumber != "" {
		p.logger.Info("extracted invoice number", "filename", filename, "invoice_number", invoiceNumber)
	}

	items := ExtractColumns(p.logger, doc, p.targetColumns)
	if len(items) == 0 {
		p.logger.Warn("no line items found", "filename", filename)
		items = []Row{}
	} else {
		p.logger.Info("extracted line items", "filename", filename, "items", len(items))
	}

	return &Result{InvoiceNumber: invoiceNumber, Items: items}, nil
}
