package facts

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const factsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": [
    "schema_version",
    "session_id",
    "palette",
    "labels_found",
    "preserve_details",
    "hollow_regions",
    "construction_details",
    "transparency"
  ],
  "properties": {
    "schema_version": { "type": "string", "minLength": 1 },
    "session_id": { "type": "string", "minLength": 1 },
    "palette": {
      "type": "object",
      "required": ["dominant_hex"],
      "properties": {
        "dominant_hex": { "type": "string", "pattern": "^#[0-9a-fA-F]{6}$" },
        "accent_hex": { "type": "string", "pattern": "^#[0-9a-fA-F]{6}$" },
        "pattern_hexes": {
          "type": "array",
          "items": { "type": "string", "pattern": "^#[0-9a-fA-F]{6}$" }
        }
      }
    },
    "labels_found": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["text", "preserve", "readable"],
        "properties": {
          "text": { "type": "string" },
          "preserve": { "type": "boolean" },
          "readable": { "type": "boolean" },
          "priority": { "enum": ["critical", "important", "nice_to_have"] },
          "ocr_confidence": { "type": "number", "minimum": 0, "maximum": 1 }
        }
      }
    },
    "preserve_details": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["element", "priority"],
        "properties": {
          "element": { "type": "string", "minLength": 1 },
          "priority": { "enum": ["critical", "important", "nice_to_have"] }
        }
      }
    },
    "hollow_regions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["region"],
        "properties": {
          "region": { "type": "string", "minLength": 1 }
        }
      }
    },
    "construction_details": {
      "type": "array",
      "items": { "type": "string" }
    },
    "transparency": { "type": "string", "minLength": 1 },
    "defaulted_fields": {
      "type": "array",
      "items": { "type": "string" }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(factsSchema), &doc); err != nil {
			schemaErr = fmt.Errorf("unmarshal facts schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("facts.json", doc); err != nil {
			schemaErr = fmt.Errorf("add facts schema resource: %w", err)
			return
		}

		schema, schemaErr = compiler.Compile("facts.json")
	})
	return schema, schemaErr
}

// Validate checks a FactsRecord against the FactsRecord JSON schema. The
// consolidation engine's defaulting is designed to make failure here
// unreachable in normal operation; a failure indicates a merge bug rather
// than bad input.
func Validate(record *FactsRecord) error {
	compiled, err := compiledSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal facts record: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("unmarshal facts record: %w", err)
	}

	return compiled.Validate(doc)
}
