// Package spec loads and validates OpenAPI 3.x specification documents.
//
// A loaded [Document] is an immutable tree of nested maps, slices, and scalars
// for the duration of one request. It additionally records the declaration
// order of every mapping in the source, so that downstream consumers (the
// example synthesizer and table renderers) can iterate properties and paths in
// the order the author wrote them. Go maps do not preserve insertion order, so
// the order is kept in a side index keyed by map identity, owned by the
// Document that produced the maps.
package spec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/iliakrupin/openapi-to-docx/docerrors"
)

// SourceFormat represents the format of the source specification file
type SourceFormat string

const (
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// Document is a parsed OpenAPI specification.
//
// Callers should treat the Data tree as read-only after loading. The resolver
// and synthesizer receive it by reference and never modify it.
type Document struct {
	// Data is the raw parsed document tree
	Data map[string]any
	// SourcePath is the input source the document was read from, when known
	SourcePath string
	// SourceFormat is the detected format of the source (JSON or YAML)
	SourceFormat SourceFormat
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// Warnings contains non-fatal issues found while loading or validating
	Warnings []string

	// order maps mapping identity to key declaration order.
	// Populated only for documents decoded from source bytes.
	order map[uintptr][]string
}

// Load reads and parses a specification document from r.
// The YAML parser handles both YAML and JSON input; the format is detected
// for reporting purposes only.
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &docerrors.ParseError{Message: "reading input", Cause: err}
	}
	return LoadBytes(data)
}

// LoadFile reads and parses a specification document from a file path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &docerrors.ParseError{Path: path, Message: "reading file", Cause: err}
	}
	doc, err := LoadBytes(data)
	if err != nil {
		var pe *docerrors.ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	doc.SourcePath = path
	return doc, nil
}

// LoadBytes parses a specification document from raw bytes.
func LoadBytes(data []byte) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &docerrors.ParseError{Message: "invalid JSON/YAML document", Cause: err}
	}

	root := &node
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, &docerrors.ParseError{Message: "empty document"}
		}
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, &docerrors.ParseError{Message: fmt.Sprintf("top-level value must be an object, got %s", nodeKind(root))}
	}

	doc := &Document{
		SourceFormat: detectFormat(data),
		SourceSize:   int64(len(data)),
		order:        make(map[uintptr][]string),
	}
	value, err := doc.convertNode(root)
	if err != nil {
		return nil, &docerrors.ParseError{Message: "decoding document", Cause: err}
	}
	doc.Data = value.(map[string]any)
	return doc, nil
}

// FromMap wraps an already-decoded document tree.
// Key declaration order is unavailable for such documents; Keys falls back to
// sorted order to stay deterministic.
func FromMap(m map[string]any) *Document {
	return &Document{Data: m, SourceFormat: SourceFormatUnknown}
}

// Keys returns the keys of m in source declaration order when m belongs to
// this document, and in sorted order otherwise. The result is stable either way.
func (d *Document) Keys(m map[string]any) []string {
	if d != nil && d.order != nil {
		if keys, ok := d.order[mapID(m)]; ok {
			return keys
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// convertNode converts a yaml.Node tree into plain Go values, recording key
// declaration order for every mapping it creates.
func (d *Document) convertNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		keys := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			val, err := d.convertNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			if _, dup := m[key]; !dup {
				keys = append(keys, key)
			}
			m[key] = val
		}
		d.order[mapID(m)] = keys
		return m, nil

	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			val, err := d.convertNode(item)
			if err != nil {
				return nil, err
			}
			s = append(s, val)
		}
		return s, nil

	default:
		// Scalar and alias nodes: let the yaml decoder pick the Go type.
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// mapID returns a stable identity for a map value.
// Two distinct live maps never share an identity; the index is owned by the
// Document so identities cannot leak across documents.
func mapID(m map[string]any) uintptr {
	return reflect.ValueOf(m).Pointer()
}

// detectFormat guesses the source format from the first non-space byte.
func detectFormat(data []byte) SourceFormat {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[':
			return SourceFormatJSON
		default:
			return SourceFormatYAML
		}
	}
	return SourceFormatUnknown
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "unknown"
	}
}

// GetMap returns m[key] as a map when present and of the right type.
func GetMap(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	child, ok := v.(map[string]any)
	return child, ok
}

// GetString returns m[key] as a string, or the empty string.
func GetString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// GetSlice returns m[key] as a slice when present and of the right type.
func GetSlice(m map[string]any, key string) ([]any, bool) {
	v, ok := m[key].([]any)
	return v, ok
}

// GetBool returns m[key] as a bool, or false.
func GetBool(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

// FirstNonEmpty returns the first non-empty string among its arguments.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
