package resolve

import "strings"

// TypeOf returns the human-readable type designation for a schema.
//
// The precedence chain is the canonical fallback order for the incomplete or
// partial schemas that occur in hand-written OpenAPI documents:
//
//  1. an explicit type field wins outright
//  2. presence of enum classifies as "enum"
//  3. presence of properties classifies as "object"
//  4. presence of items classifies as "array"
//  5. an unresolved $ref falls back to the last pointer segment, which reads
//     as the referenced component's name
//  6. everything else defaults to "object"
func TypeOf(schema map[string]any) string {
	if len(schema) == 0 {
		return "object"
	}

	if t, ok := schema["type"]; ok {
		switch v := t.(type) {
		case string:
			if v != "" {
				return v
			}
		case []any:
			// OAS 3.1 type arrays: first non-null entry names the type.
			for _, item := range v {
				if s, ok := item.(string); ok && s != "null" {
					return s
				}
			}
		}
	}

	if _, ok := schema["enum"]; ok {
		return "enum"
	}

	if _, ok := schema["properties"]; ok {
		return "object"
	}

	if _, ok := schema["items"]; ok {
		return "array"
	}

	if ref, ok := schema["$ref"].(string); ok && ref != "" {
		segments := strings.Split(ref, "/")
		return segments[len(segments)-1]
	}

	return "object"
}
