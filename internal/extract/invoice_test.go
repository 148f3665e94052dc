package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/invoice-formatter/internal/document"
)

func texts(entries ...string) *document.Document {
	doc := &document.Document{}
	for _, text := range entries {
		doc.Texts = append(doc.Texts, document.TextEntry{Text: text})
	}
	return doc
}

func TestExtractInvoiceNumber(t *testing.T) {
	tests := []struct {
		name string
		doc  *document.Document
		want string
	}{
		{
			name: "invoice no label",
			doc:  texts("Invoice No: INV-2024-001"),
			want: "INV-2024-001",
		},
		{
			name: "invoice number label",
			doc:  texts("Invoice Number: 42"),
			want: "42",
		},
		{
			name: "label match is case-insensitive",
			doc:  texts("INVOICE NO: ABC-9"),
			want: "ABC-9",
		},
		{
			name: "value keeps original casing and inner colons",
			doc:  texts("invoice no: Ref:2024/17"),
			want: "Ref:2024/17",
		},
		{
			name: "surrounding whitespace trimmed",
			doc:  texts("Invoice No:   INV-7   "),
			want: "INV-7",
		},
		{
			name: "first matching entry wins",
			doc:  texts("Seller: ACME", "Invoice No: FIRST", "Invoice No: SECOND"),
			want: "FIRST",
		},
		{
			name: "no matching entry",
			doc:  texts("Total due: 100.00"),
			want: "",
		},
		{
			name: "no texts at all",
			doc:  &document.Document{},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractInvoiceNumber(nil, tt.doc))
		})
	}
}
