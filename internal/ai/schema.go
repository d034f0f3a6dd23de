package ai

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// responseSchema checks only the structural shape of a model reply. Scalar
// types stay loose because values are coerced afterwards.
var responseSchema = jsonschema.MustCompileString("response.json", `{
	"type": "object",
	"properties": {
		"items": {
			"type": ["array", "null"],
			"items": {"type": "object"}
		},
		"paymentInfo": {
			"type": ["object", "null"]
		}
	}
}`)

// validateShape validates data against responseSchema
func validateShape(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := responseSchema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
