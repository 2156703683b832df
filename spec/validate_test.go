package spec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliakrupin/openapi-to-docx/docerrors"
)

func validDoc() *Document {
	return FromMap(map[string]any{
		"openapi": "3.0.0",
		"info":    map[string]any{"title": "t", "version": "1"},
		"paths":   map[string]any{"/pets": map[string]any{}},
	})
}

func TestValidate_ValidDocument(t *testing.T) {
	require.NoError(t, Validate(validDoc(), nil))
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]any)
		field  string
	}{
		{"missing openapi", func(m map[string]any) { delete(m, "openapi") }, "openapi"},
		{"missing info", func(m map[string]any) { delete(m, "info") }, "info"},
		{"missing paths", func(m map[string]any) { delete(m, "paths") }, "paths"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc.Data)

			err := Validate(doc, nil)
			require.Error(t, err)

			var ve *docerrors.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidate_Versions(t *testing.T) {
	tests := []struct {
		version string
		valid   bool
	}{
		{"3.0.0", true},
		{"3.0.3", true},
		{"3.1.0", true},
		{"3.2.0", true},
		{"2.0", false},
		{"1.2", false},
		{"swagger", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run("version "+tt.version, func(t *testing.T) {
			doc := validDoc()
			doc.Data["openapi"] = tt.version

			err := Validate(doc, nil)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, docerrors.ErrValidation), "expected ValidationError, got: %v", err)
			}
		})
	}
}

func TestValidate_NonStringVersion(t *testing.T) {
	doc := validDoc()
	doc.Data["openapi"] = 3.0

	err := Validate(doc, nil)
	assert.True(t, errors.Is(err, docerrors.ErrValidation))
}

func TestValidate_PathsMustBeObject(t *testing.T) {
	doc := validDoc()
	doc.Data["paths"] = []any{"/pets"}

	err := Validate(doc, nil)
	require.Error(t, err)

	var ve *docerrors.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "paths", ve.Field)
}

// TestValidate_PathWarning verifies that a path missing its leading slash is
// reported as a warning, not a validation failure.
func TestValidate_PathWarning(t *testing.T) {
	doc := validDoc()
	doc.Data["paths"] = map[string]any{"pets": map[string]any{}}

	require.NoError(t, Validate(doc, nil))
	require.Len(t, doc.Warnings, 1)
	assert.Contains(t, doc.Warnings[0], "pets")
}
