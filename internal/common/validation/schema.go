// internal/common/validation/schema.go

// Package validation checks worker payloads against JSON schemas before the
// engine sees them. Structural problems fail the job with PARSE_ERROR
// instead of surfacing as confusing zero scores.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// CandidateProfileSchema is the minimal structural contract for an inbound
// candidate record. Entry contents stay loose on purpose: extraction quality
// is not this system's concern.
var CandidateProfileSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"id"},
	"properties": map[string]interface{}{
		"id":   map[string]interface{}{"type": "string", "minLength": 1},
		"name": map[string]interface{}{"type": "string"},
		"kind": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"structured", "legacy"},
		},
		// Sections are optional; an absent or null section scores zero, it
		// never rejects the payload.
		"education":   map[string]interface{}{"type": []interface{}{"array", "null"}},
		"experience":  map[string]interface{}{"type": []interface{}{"array", "null"}},
		"training":    map[string]interface{}{"type": []interface{}{"array", "null"}},
		"eligibility": map[string]interface{}{"type": []interface{}{"array", "null"}},
		"rawText":     map[string]interface{}{"type": "string"},
		"manualScores": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"potential":   map[string]interface{}{"type": "number"},
				"performance": map[string]interface{}{"type": "number"},
			},
		},
	},
}

// JobRequirementSchema is the structural contract for an inbound job posting.
var JobRequirementSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"id"},
	"properties": map[string]interface{}{
		"id":    map[string]interface{}{"type": "string", "minLength": 1},
		"title": map[string]interface{}{"type": "string"},
		"kind": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"structured", "legacy"},
		},
		"education":     map[string]interface{}{"type": "string"},
		"experience":    map[string]interface{}{"type": "string"},
		"training":      map[string]interface{}{"type": "string"},
		"description":   map[string]interface{}{"type": "string"},
		"requiredLevel": map[string]interface{}{"type": "string"},
		"requiredYears": map[string]interface{}{"type": "number", "minimum": 0},
		"keywords": map[string]interface{}{
			"type":  []interface{}{"array", "null"},
			"items": map[string]interface{}{"type": "string"},
		},
		"weightOverrides": map[string]interface{}{"type": "object"},
	},
}

// Validate checks data against schema and returns a single descriptive error
// listing every violation.
func Validate(data interface{}, schema map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("data validation failed: %v", errs)
	}

	return nil
}

// ValidateCandidate checks a decoded candidate payload.
func ValidateCandidate(data interface{}) error {
	return Validate(data, CandidateProfileSchema)
}

// ValidateJob checks a decoded job payload.
func ValidateJob(data interface{}) error {
	return Validate(data, JobRequirementSchema)
}
