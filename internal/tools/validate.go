package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Validate checks args against the descriptor's input schema: every required
// field must be present (required strings must be non-empty) and every
// supplied field must match its declared JSON type. Arguments the schema does
// not declare are ignored.
func Validate(d Descriptor, args Args) error {
	name := d.Name()

	for _, field := range d.Tool.InputSchema.Required {
		v, ok := args[field]
		if !ok || v == nil {
			return invalidArg(name, field, "is required")
		}
		if s, isString := v.(string); isString && s == "" {
			return invalidArg(name, field, "must not be empty")
		}
	}

	for field, prop := range d.Tool.InputSchema.Properties {
		v, ok := args[field]
		if !ok || v == nil {
			continue
		}
		schema, _ := prop.(map[string]any)
		if err := checkType(schema, v); err != nil {
			return invalidArg(name, field, "%s", err)
		}
	}

	return nil
}

func checkType(schema map[string]any, v any) error {
	want, _ := schema["type"].(string)

	switch want {
	case "string":
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("must be a string, got %s", jsonType(v))
		}
		if enum, ok := schema["enum"].([]string); ok && str != "" && !slices.Contains(enum, str) {
			return fmt.Errorf("must be one of %s", strings.Join(enum, ", "))
		}
	case "number":
		if _, ok := asFloat(v); !ok {
			return fmt.Errorf("must be a number, got %s", jsonType(v))
		}
	case "integer":
		f, ok := asFloat(v)
		if !ok || f != math.Trunc(f) {
			return fmt.Errorf("must be an integer, got %s", jsonType(v))
		}
	case "boolean":
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("must be a boolean, got %s", jsonType(v))
		}
	case "object":
		if _, ok := v.(map[string]any); !ok {
			return fmt.Errorf("must be an object, got %s", jsonType(v))
		}
	case "array":
		items, ok := v.([]any)
		if !ok {
			return fmt.Errorf("must be an array, got %s", jsonType(v))
		}
		itemSchema, _ := schema["items"].(map[string]any)
		if itemSchema == nil {
			return nil
		}
		for i, item := range items {
			if err := checkType(itemSchema, item); err != nil {
				return fmt.Errorf("item %d %w", i, err)
			}
		}
	}

	return nil
}

// asFloat accepts JSON-decoded numbers as well as Go integers from in-process callers.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, float32, int, int32, int64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
