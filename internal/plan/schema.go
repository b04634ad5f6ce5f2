package plan

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// shapeDefinition is the minimum a reply must satisfy to be treated as a
// plan. Everything else is filled in by normalization.
var shapeDefinition = map[string]any{
	"type":     "object",
	"required": []any{"duration", "schedule"},
	"properties": map[string]any{
		"duration": map[string]any{
			"type":             []any{"string", "number"},
			"minLength":        1,
			"exclusiveMinimum": 0,
		},
		"schedule": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"days": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "object"},
					},
				},
			},
		},
	},
}

var compiledShape = sync.OnceValues(func() (*jsonschema.Schema, error) {
	// The compiler expects a parsed JSON value; round-trip to get one.
	defBytes, err := json.Marshal(shapeDefinition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	const schemaURL = "schema://study-plan.json"
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
})

// validateShape checks an extracted object against the plan shape.
func validateShape(obj map[string]any) error {
	compiled, err := compiledShape()
	if err != nil {
		return fmt.Errorf("compile plan schema: %w", err)
	}
	if err := compiled.Validate(any(obj)); err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	return nil
}
