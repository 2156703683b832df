package resolve

// formatExamples maps OpenAPI string formats to canonical example values.
var formatExamples = map[string]any{
	"uuid":      "3fa85f64-5717-4562-b3fc-2c963f66afa6",
	"date-time": "2024-01-15T09:30:00Z",
	"date":      "2024-01-15",
	"time":      "09:30:00Z",
	"email":     "user@example.com",
	"uri":       "https://example.com/resource",
	"hostname":  "example.com",
	"ipv4":      "192.168.0.1",
	"ipv6":      "2001:db8::1",
	"byte":      "U3dhZ2dlciByb2Nrcw==",
	"binary":    "binary data",
	"password":  "********",
}

// Example synthesizes a representative example value for a schema. It never
// fails: unresolvable references, cycles and overly deep nesting all degrade
// to empty placeholders with a warning logged.
func (r *Resolver) Example(schema map[string]any) any {
	visited := make(map[string]bool)
	return r.synthesize(schema, visited, 0)
}

func (r *Resolver) synthesize(schema map[string]any, visited map[string]bool, depth int) any {
	maxDepth := r.MaxDepth
	if maxDepth <= 0 {
		maxDepth = MaxSynthesisDepth
	}
	if depth > maxDepth {
		r.log().Warn("maximum schema nesting depth exceeded, truncating example", "depth", depth)
		return NewObject()
	}
	if len(schema) == 0 {
		return NewObject()
	}

	resolved := r.Resolve(schema)

	// Cycle guard keyed by reference pointer. The key is removed on return
	// so that sibling branches may legitimately reuse the same component.
	if key := refKey(schema, resolved); key != "" {
		if visited[key] {
			r.log().Warn("circular reference in example synthesis", "ref", key)
			if TypeOf(resolved) == "array" {
				return []any{}
			}
			return NewObject()
		}
		visited[key] = true
		defer delete(visited, key)
	}

	if example, ok := resolved["example"]; ok {
		return example
	}
	if def, ok := resolved["default"]; ok {
		return def
	}

	switch TypeOf(resolved) {
	case "object":
		return r.synthesizeObject(resolved, visited, depth)
	case "array":
		return r.synthesizeArray(resolved, visited, depth)
	}

	if enum, ok := resolved["enum"].([]any); ok && len(enum) > 0 {
		return enum[0]
	}
	if nullable, ok := resolved["nullable"].(bool); ok && nullable {
		return nil
	}
	if format, ok := resolved["format"].(string); ok {
		if v, ok := formatExamples[format]; ok {
			return v
		}
	}

	switch TypeOf(resolved) {
	case "string":
		return "string"
	case "integer", "number":
		return 0
	case "boolean":
		return true
	}
	return "value"
}

func (r *Resolver) synthesizeObject(schema map[string]any, visited map[string]bool, depth int) any {
	obj := NewObject()
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		return obj
	}
	for _, name := range r.doc.Keys(props) {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		// Skip properties that point straight back into the current
		// reference chain instead of emitting a placeholder for them.
		if ref, ok := prop["$ref"].(string); ok && visited[ref] {
			continue
		}
		obj.Set(name, r.synthesize(prop, visited, depth+1))
	}
	return obj
}

func (r *Resolver) synthesizeArray(schema map[string]any, visited map[string]bool, depth int) any {
	items, ok := schema["items"].(map[string]any)
	if !ok {
		return []any{}
	}
	if ref, ok := items["$ref"].(string); ok && visited[ref] {
		r.log().Warn("circular reference in array items", "ref", ref)
		return []any{}
	}
	item := r.synthesize(items, visited, depth+1)

	// A bare or empty item schema synthesizes to an empty object, which
	// reads poorly inside an array example. When the item declares no type
	// beyond string, fall back to a string placeholder instead.
	if obj, ok := item.(*Object); ok && obj.Len() == 0 {
		resolvedItems := r.Resolve(items)
		t, hasType := resolvedItems["type"].(string)
		if !hasType || t == "string" {
			return []any{"string"}
		}
	}
	return []any{item}
}

// refKey picks the cycle-tracking key for a schema: its own $ref when it is
// a reference node, otherwise any $ref remaining on the resolved form.
func refKey(schema, resolved map[string]any) string {
	if ref, ok := schema["$ref"].(string); ok && ref != "" {
		return ref
	}
	if ref, ok := resolved["$ref"].(string); ok && ref != "" {
		return ref
	}
	return ""
}
