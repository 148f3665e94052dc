// Package document holds the typed model for externally-produced
// structured-document JSON and its strict decoder.
package document

import (
	"encoding/json"

	"github.com/joseph-ayodele/invoice-formatter/internal/common"
)

// Document is the decoded input unit: tables as row-major grids of
// cells, free text as a flat list of entries. Both sequences keep the
// producer's order.
type Document struct {
	Tables []Table     `json:"tables"`
	Texts  []TextEntry `json:"texts"`
}

// Table wraps one extracted table.
type Table struct {
	Data TableData `json:"data"`
}

// TableData holds the grid. Grids are ragged-tolerant: rows may have
// fewer cells than the header row.
type TableData struct {
	Grid [][]Cell `json:"grid"`
}

// Cell is one grid cell. A missing text field decodes to "".
type Cell struct {
	Text string `json:"text"`
}

// TextEntry is one free-text fragment.
type TextEntry struct {
	Text string `json:"text"`
}

// Decode parses UTF-8 JSON into a Document. The raw value is validated
// against the document schema first, so a structural mismatch (a grid
// that is not an array, a cell text that is not a string) surfaces as a
// DecodeError instead of silently defaulting inside extraction.
func Decode(name string, data []byte) (*Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, common.NewDecodeError(name, err)
	}
	if err := documentSchema().Validate(raw); err != nil {
		return nil, common.NewDecodeError(name, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, common.NewDecodeError(name, err)
	}
	return &doc, nil
}
