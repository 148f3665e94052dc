package extract

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/invoice-formatter/internal/document"
)

// ExtractInvoiceNumber scans the document's free-text entries for the
// first one labelled as an invoice number and returns the trimmed value
// after the first ':'. Absence is a valid, loggable outcome, not a
// processing failure: the empty string is returned.
func ExtractInvoiceNumber(logger *slog.Logger, doc *document.Document) string {
	if logger == nil {
		logger = slog.Default()
	}
	for _, entry := range doc.Texts {
		lower := strings.ToLower(entry.Text)
		if !strings.Contains(lower, "invoice no:") && !strings.Contains(lower, "invoice number:") {
			continue
		}
		// Split the original (non-lowercased) text on the first ':'.
		if _, value, found := strings.Cut(entry.Text, ":"); found {
			return strings.TrimSpace(value)
		}
	}
	logger.Warn("no invoice number found in document")
	return ""
}
