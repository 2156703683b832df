package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliakrupin/openapi-to-docx/spec"
)

// warnRecorder records warning messages for assertions.
type warnRecorder struct {
	spec.NopLogger
	warnings []string
}

func (w *warnRecorder) Warn(msg string, _ ...any) {
	w.warnings = append(w.warnings, msg)
}

func (w *warnRecorder) With(_ ...any) spec.Logger { return w }

func docWithSchemas(schemas map[string]any) *spec.Document {
	return spec.FromMap(map[string]any{
		"openapi": "3.0.3",
		"info":    map[string]any{"title": "t", "version": "1"},
		"paths":   map[string]any{},
		"components": map[string]any{
			"schemas": schemas,
		},
	})
}

func TestResolve_IdentityPassthrough(t *testing.T) {
	r := New(docWithSchemas(nil))
	node := map[string]any{"type": "string"}

	got := r.Resolve(node)

	require.NotNil(t, got)
	assert.Equal(t, "string", got["type"])

	// Same map, not a copy.
	got["marker"] = true
	assert.Equal(t, true, node["marker"])
}

func TestResolve_EmptyNode(t *testing.T) {
	r := New(docWithSchemas(nil))
	got := r.Resolve(nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResolve_SimpleRef(t *testing.T) {
	r := New(docWithSchemas(map[string]any{
		"Pet": map[string]any{
			"type":       "object",
			"properties": map[string]any{"name": map[string]any{"type": "string"}},
		},
	}))

	got := r.Resolve(map[string]any{"$ref": "#/components/schemas/Pet"})

	assert.Equal(t, "object", got["type"])
	assert.Contains(t, got, "properties")
}

func TestResolve_RefChain(t *testing.T) {
	r := New(docWithSchemas(map[string]any{
		"Alias":  map[string]any{"$ref": "#/components/schemas/Target"},
		"Target": map[string]any{"type": "integer"},
	}))

	got := r.Resolve(map[string]any{"$ref": "#/components/schemas/Alias"})

	assert.Equal(t, "integer", got["type"])
}

func TestResolve_ExternalRefReturnsOriginal(t *testing.T) {
	rec := &warnRecorder{}
	r := New(docWithSchemas(nil))
	r.Logger = rec

	node := map[string]any{"$ref": "other.yaml#/components/schemas/Pet"}
	got := r.Resolve(node)

	assert.Equal(t, node["$ref"], got["$ref"])
	assert.NotEmpty(t, rec.warnings)
}

func TestResolve_MissingTargetReturnsOriginal(t *testing.T) {
	rec := &warnRecorder{}
	r := New(docWithSchemas(map[string]any{}))
	r.Logger = rec

	node := map[string]any{"$ref": "#/components/schemas/Nope"}
	got := r.Resolve(node)

	assert.Equal(t, "#/components/schemas/Nope", got["$ref"])
	assert.NotEmpty(t, rec.warnings)
}

func TestResolve_NonObjectTargetReturnsOriginal(t *testing.T) {
	r := New(spec.FromMap(map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{"Bad": "not a schema"},
		},
	}))

	node := map[string]any{"$ref": "#/components/schemas/Bad"}
	got := r.Resolve(node)

	assert.Equal(t, node, got)
}

func TestResolve_EscapedPointerSegments(t *testing.T) {
	r := New(spec.FromMap(map[string]any{
		"paths": map[string]any{
			"/pets/{id}": map[string]any{"type": "object"},
			"odd~name":   map[string]any{"type": "string"},
		},
	}))

	got := r.Resolve(map[string]any{"$ref": "#/paths/~1pets~1{id}"})
	assert.Equal(t, "object", got["type"])

	got = r.Resolve(map[string]any{"$ref": "#/paths/odd~0name"})
	assert.Equal(t, "string", got["type"])
}

func TestResolve_PureRefCycleTerminates(t *testing.T) {
	rec := &warnRecorder{}
	r := New(docWithSchemas(map[string]any{
		"A": map[string]any{"$ref": "#/components/schemas/B"},
		"B": map[string]any{"$ref": "#/components/schemas/A"},
	}))
	r.Logger = rec

	got := r.Resolve(map[string]any{"$ref": "#/components/schemas/A"})

	// Degrades to an unresolved node instead of looping.
	assert.Contains(t, got, "$ref")
	assert.NotEmpty(t, rec.warnings)
}

func TestResolve_CacheHit(t *testing.T) {
	doc := docWithSchemas(map[string]any{
		"Pet": map[string]any{"type": "object"},
	})
	r := New(doc)

	first := r.Resolve(map[string]any{"$ref": "#/components/schemas/Pet"})

	// Mutate the document so a second walk would find nothing. A cache hit
	// still returns the previously resolved schema.
	doc.Data["components"] = map[string]any{}
	second := r.Resolve(map[string]any{"$ref": "#/components/schemas/Pet"})
	assert.Equal(t, first, second)

	r.ClearCache()
	rec := &warnRecorder{}
	r.Logger = rec
	third := r.Resolve(map[string]any{"$ref": "#/components/schemas/Pet"})
	assert.Contains(t, third, "$ref")
	assert.NotEmpty(t, rec.warnings)
}

func TestResolve_FailedResolutionNotCached(t *testing.T) {
	doc := docWithSchemas(map[string]any{})
	r := New(doc)

	got := r.Resolve(map[string]any{"$ref": "#/components/schemas/Late"})
	assert.Contains(t, got, "$ref")

	// Adding the schema afterwards must be visible: failures are not cached.
	schemas := doc.Data["components"].(map[string]any)["schemas"].(map[string]any)
	schemas["Late"] = map[string]any{"type": "boolean"}

	got = r.Resolve(map[string]any{"$ref": "#/components/schemas/Late"})
	assert.Equal(t, "boolean", got["type"])
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name   string
		schema map[string]any
		want   string
	}{
		{"explicit type", map[string]any{"type": "integer"}, "integer"},
		{"type wins over enum", map[string]any{"type": "string", "enum": []any{"a"}}, "string"},
		{"type array picks non-null", map[string]any{"type": []any{"null", "number"}}, "number"},
		{"enum", map[string]any{"enum": []any{"a", "b"}}, "enum"},
		{"enum wins over properties", map[string]any{"enum": []any{1}, "properties": map[string]any{}}, "enum"},
		{"properties", map[string]any{"properties": map[string]any{"x": nil}}, "object"},
		{"properties win over items", map[string]any{"properties": map[string]any{}, "items": map[string]any{}}, "object"},
		{"items", map[string]any{"items": map[string]any{"type": "string"}}, "array"},
		{"ref last segment", map[string]any{"$ref": "#/components/schemas/PetResponse"}, "PetResponse"},
		{"empty schema", map[string]any{}, "object"},
		{"nil schema", nil, "object"},
		{"unknown shape", map[string]any{"description": "free-form"}, "object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.schema))
		})
	}
}
