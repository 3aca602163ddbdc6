package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// itemsSchema keeps validation deliberately loose: the shape must be an
// object carrying an items array of objects. Field values are coerced (and
// name-less entries dropped) during parsing rather than rejected here.
var itemsSchema = map[string]any{
	"type":     "object",
	"required": []any{"items"},
	"properties": map[string]any{
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":        map[string]any{"type": []any{"string", "number"}},
					"description": map[string]any{},
					"category":    map[string]any{},
					"quantity":    map[string]any{"type": []any{"number", "string", "null"}},
					"unit":        map[string]any{},
					"price":       map[string]any{"type": []any{"number", "string", "null"}},
					"currency":    map[string]any{},
					"supplier":    map[string]any{},
				},
			},
		},
	},
}

var compiledItemsSchema = mustCompile(itemsSchema)

// ValidateItemsDocument checks a model payload against the items schema
// before any field is trusted.
func ValidateItemsDocument(doc []byte) error {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("unmarshal items document: %w", err)
	}
	if err := compiledItemsSchema.Validate(v); err != nil {
		return fmt.Errorf("items document does not match schema: %w", err)
	}
	return nil
}

func mustCompile(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("items.json", bytes.NewReader(b)); err != nil {
		panic(err)
	}
	schema, err := compiler.Compile("items.json")
	if err != nil {
		panic(err)
	}
	return schema
}
