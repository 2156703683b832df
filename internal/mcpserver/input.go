package mcpserver

import (
	"errors"

	"github.com/iliakrupin/openapi-to-docx/spec"
)

// specInput represents the two ways a spec can be provided to a tool.
// Exactly one of File or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI file on disk (JSON or YAML)"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document content (JSON or YAML)"`
}

func (in specInput) load() (*spec.Document, error) {
	switch {
	case in.File != "" && in.Content != "":
		return nil, errors.New("provide either file or content, not both")
	case in.File != "":
		return spec.LoadFile(in.File)
	case in.Content != "":
		return spec.LoadBytes([]byte(in.Content))
	default:
		return nil, errors.New("either file or content is required")
	}
}
