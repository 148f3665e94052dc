package document

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildDocumentJSONSchema returns a JSON-Schema (draft 2020-12 subset)
// for the consumed DoclingDocument subset as a generic map. Only the
// fields extraction reads are constrained; everything else is allowed
// through untouched.
func BuildDocumentJSONSchema() map[string]any {
	cell := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
	}
	table := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"data": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"grid": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":  "array",
							"items": cell,
						},
					},
				},
			},
		},
	}
	textEntry := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string"},
		},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tables": map[string]any{"type": "array", "items": table},
			"texts":  map[string]any{"type": "array", "items": textEntry},
		},
	}
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

// documentSchema compiles the schema once; the schema map is static so
// compilation cannot fail after the code builds.
func documentSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		b, err := json.Marshal(BuildDocumentJSONSchema())
		if err != nil {
			panic(err)
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("document.schema.json", bytes.NewReader(b)); err != nil {
			panic(err)
		}
		schema = compiler.MustCompile("document.schema.json")
	})
	return schema
}
