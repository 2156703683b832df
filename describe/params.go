package describe

import (
	"github.com/iliakrupin/openapi-to-docx/resolve"
	"github.com/iliakrupin/openapi-to-docx/spec"
)

// Row defaults used when the document gives no description.
const (
	descNone        = "No description"
	descRequestBody = "Request body"
	descResponse    = "Service response"
	descItemList    = "List of items"
)

// ParameterRow is one line of the request parameters table.
type ParameterRow struct {
	Name        string
	In          string
	Type        string
	Description string
	Required    bool
}

// SchemaField is one line of the response fields table.
type SchemaField struct {
	Name        string
	Type        string
	Description string
}

// ParameterRows collects the declared parameters, the request body media
// rows, and the body schema's own properties flattened as "body.<name>".
func (b *Builder) ParameterRows(op map[string]any) []ParameterRow {
	var rows []ParameterRow

	if params, ok := spec.GetSlice(op, "parameters"); ok {
		for _, p := range params {
			param, ok := p.(map[string]any)
			if !ok {
				continue
			}
			schema, _ := spec.GetMap(param, "schema")
			resolved := b.res.Resolve(schema)
			rows = append(rows, ParameterRow{
				Name:        spec.FirstNonEmpty(spec.GetString(param, "name"), "-"),
				In:          spec.FirstNonEmpty(spec.GetString(param, "in"), "-"),
				Type:        resolve.TypeOf(resolved),
				Description: spec.FirstNonEmpty(spec.GetString(param, "description"), descNone),
				Required:    spec.GetBool(param, "required"),
			})
		}
	}

	if body, ok := spec.GetMap(op, "requestBody"); ok {
		required := spec.GetBool(body, "required")
		content, _ := spec.GetMap(body, "content")
		for _, mediaType := range b.doc.Keys(content) {
			media, ok := content[mediaType].(map[string]any)
			if !ok {
				continue
			}
			schema, _ := spec.GetMap(media, "schema")
			resolved := b.res.Resolve(schema)
			rows = append(rows, ParameterRow{
				Name:        "-",
				In:          "body",
				Type:        resolve.TypeOf(resolved),
				Description: spec.FirstNonEmpty(spec.GetString(media, "description"), descRequestBody),
				Required:    required,
			})
			rows = append(rows, b.schemaPropertyRows(resolved, "body", "body")...)
		}
	}

	return rows
}

// schemaPropertyRows flattens an object schema's properties into parameter
// rows named "<parent>.<property>".
func (b *Builder) schemaPropertyRows(schema map[string]any, location, parent string) []ParameterRow {
	resolved := b.res.Resolve(schema)
	if resolve.TypeOf(resolved) != "object" {
		return nil
	}

	props, ok := spec.GetMap(resolved, "properties")
	if !ok {
		return nil
	}
	requiredNames := make(map[string]bool)
	if required, ok := spec.GetSlice(resolved, "required"); ok {
		for _, r := range required {
			if name, ok := r.(string); ok {
				requiredNames[name] = true
			}
		}
	}

	var rows []ParameterRow
	for _, name := range b.doc.Keys(props) {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		resolvedProp := b.res.Resolve(prop)
		rows = append(rows, ParameterRow{
			Name:        parent + "." + name,
			In:          location,
			Type:        resolve.TypeOf(resolvedProp),
			Description: spec.FirstNonEmpty(spec.GetString(resolvedProp, "description"), descNone),
			Required:    requiredNames[name],
		})
	}
	return rows
}

// SuccessResponseSchema picks the schema of the primary success response:
// 200, 201 or 202 first, then any other 2xx, then the first media entry that
// carries a schema.
func (b *Builder) SuccessResponseSchema(op map[string]any) map[string]any {
	responses, ok := spec.GetMap(op, "responses")
	if !ok {
		return nil
	}

	var response map[string]any
	for _, status := range []string{"200", "201", "202"} {
		if r, ok := spec.GetMap(responses, status); ok {
			response = r
			break
		}
	}
	if response == nil {
		for _, status := range b.doc.Keys(responses) {
			if len(status) > 0 && status[0] == '2' {
				if r, ok := spec.GetMap(responses, status); ok {
					response = r
					break
				}
			}
		}
	}
	if response == nil {
		return nil
	}

	content, _ := spec.GetMap(response, "content")
	for _, mediaType := range b.doc.Keys(content) {
		media, ok := content[mediaType].(map[string]any)
		if !ok {
			continue
		}
		schema, ok := spec.GetMap(media, "schema")
		if !ok {
			continue
		}
		if resolved := b.res.Resolve(schema); len(resolved) > 0 {
			return resolved
		}
	}
	return nil
}

// SchemaFields describes a schema as table rows: object properties, an
// "items[]" row for arrays, or a single "value" row for scalars.
func (b *Builder) SchemaFields(schema map[string]any) []SchemaField {
	if len(schema) == 0 {
		return nil
	}

	resolved := b.res.Resolve(schema)
	switch t := resolve.TypeOf(resolved); t {
	case "object":
		props, ok := spec.GetMap(resolved, "properties")
		if !ok || len(props) == 0 {
			return []SchemaField{{
				Name:        "result",
				Type:        "object",
				Description: spec.FirstNonEmpty(spec.GetString(resolved, "description"), descResponse),
			}}
		}
		fields := make([]SchemaField, 0, len(props))
		for _, name := range b.doc.Keys(props) {
			prop, _ := props[name].(map[string]any)
			resolvedProp := b.res.Resolve(prop)
			fields = append(fields, SchemaField{
				Name:        name,
				Type:        resolve.TypeOf(resolvedProp),
				Description: spec.FirstNonEmpty(spec.GetString(resolvedProp, "description"), descNone),
			})
		}
		return fields

	case "array":
		items, _ := spec.GetMap(resolved, "items")
		itemSchema := b.res.Resolve(items)
		return []SchemaField{{
			Name:        "items[]",
			Type:        "array<" + resolve.TypeOf(itemSchema) + ">",
			Description: spec.FirstNonEmpty(spec.GetString(resolved, "description"), descItemList),
		}}

	default:
		return []SchemaField{{
			Name:        "value",
			Type:        t,
			Description: spec.FirstNonEmpty(spec.GetString(resolved, "description"), descResponse),
		}}
	}
}
