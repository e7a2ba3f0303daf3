package common

import (
	"encoding/json"
	"fmt"

	"fjacquet/gl-audit/internal/validation"

	"gopkg.in/yaml.v3"
)

// Render encodes v as JSON or YAML, or returns text for the text format.
func Render(format, text string, v interface{}) ([]byte, error) {
	switch format {
	case validation.FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return append(data, '\n'), nil
	case validation.FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return data, nil
	case validation.FormatText:
		return []byte(text), nil
	default:
		return nil, validation.IsValidOutputFormat(format)
	}
}
