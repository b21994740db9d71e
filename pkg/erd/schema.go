package erd

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema is the JSON schema for the ERD document's structure. Value
// enumerations are checked structurally here; cross-section consistency
// (entity references, counts) stays with the stage validator.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["project_info", "entities", "relationships", "frontend_pages", "business_logic"],
  "properties": {
    "project_info": {
      "type": "object",
      "required": ["name", "total_entities", "entity_complexity"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "total_entities": {"type": "integer", "minimum": 1},
        "entity_complexity": {"enum": ["simple", "moderate", "complex"]}
      }
    },
    "entities": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "description", "fields", "operations", "relationships"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "fields": {"type": "object"},
          "operations": {
            "type": "array",
            "items": {"enum": ["create", "read", "update", "delete", "list"]}
          },
          "relationships": {"type": "array"}
        }
      }
    },
    "relationships": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from_entity", "to_entity", "relationship_type", "foreign_key", "description"],
        "properties": {
          "relationship_type": {"enum": ["one_to_many", "many_to_one", "one_to_one", "many_to_many"]}
        }
      }
    },
    "frontend_pages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "description", "entities_used", "operations"]
      }
    },
    "business_logic": {
      "type": "object",
      "required": ["authentication", "authorization"]
    }
  }
}`

// SchemaError is one JSON-schema violation against the ERD document.
type SchemaError struct {
	Field       string
	Description string
}

// String renders the violation in field: description form.
func (e SchemaError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// ValidateSchema checks raw ERD bytes against the document schema and
// returns every violation. A nil slice means the document conforms.
func ValidateSchema(raw []byte) ([]SchemaError, error) {
	schemaLoader := gojsonschema.NewStringLoader(documentSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]SchemaError, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		violations = append(violations, SchemaError{
			Field:       verr.Field(),
			Description: verr.Description(),
		})
	}

	return violations, nil
}
