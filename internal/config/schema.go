package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema describes the generic shape of config.toml.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "plant-paladin config",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "required": ["watering_interval"],
    "properties": {
      "watering_interval": {
        "type": "integer",
        "minimum": 0
      }
    }
  }
}`

const schemaURL = "config.schema.json"

// ValidationError represents a schema violation with context.
type ValidationError struct {
	Path    string // dotted path to the offending value
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(configSchema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validateDocument checks a generically decoded TOML document against the
// config schema. All violations are returned joined.
func validateDocument(doc map[string]any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	// Round-trip through JSON so the validator sees JSON-native types.
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config for validation: %w", err)
	}
	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshal config for validation: %w", err)
	}

	if err := schema.Validate(obj); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		var errs []error
		collectSchemaErrors(ve, &errs)
		if len(errs) == 0 {
			return &ValidationError{Message: ve.Message}
		}
		return errors.Join(errs...)
	}
	return nil
}

func collectSchemaErrors(err *jsonschema.ValidationError, errs *[]error) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path:    jsonPointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, errs)
	}
}

// jsonPointerToPath converts "/fern/watering_interval" to
// "fern.watering_interval".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		parts[i] = strings.ReplaceAll(part, "~0", "~")
	}
	return strings.Join(parts, ".")
}
