// internal/server/schema.go
package server

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// generateRequestSchema validates the generation request body shape before
// any domain logic runs; domain rules (duration bounds, level enum) are
// enforced again by workout.Request.Validate.
const generateRequestSchema = `{
	"type": "object",
	"properties": {
		"targetMuscles": {
			"type": "array",
			"items": {"type": "string"}
		},
		"fitnessLevel": {"type": "string"},
		"duration": {"type": "integer"},
		"equipment": {
			"type": "array",
			"items": {"type": "string"}
		},
		"goals": {
			"type": "array",
			"items": {"type": "string"}
		},
		"limitations": {
			"type": "array",
			"items": {"type": "string"}
		},
		"includeImages": {"type": "boolean"},
		"modifier": {"type": "string"}
	},
	"required": ["targetMuscles"],
	"additionalProperties": true
}`

var compiledGenerateSchema = gojsonschema.NewStringLoader(generateRequestSchema)

// validateGenerateBody checks raw JSON against the request schema and
// returns a combined problem description on failure.
func validateGenerateBody(raw []byte) (string, bool) {
	result, err := gojsonschema.Validate(compiledGenerateSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return "body is not a JSON object", false
	}
	if result.Valid() {
		return "", true
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return strings.Join(problems, "; "), false
}
