package describe

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/iliakrupin/openapi-to-docx/resolve"
	"github.com/iliakrupin/openapi-to-docx/spec"
)

// DefaultTag is assigned to operations that declare no tags.
const DefaultTag = "API"

// DefaultAuthentication is reported when neither the operation nor the
// document declares a security requirement.
const DefaultAuthentication = "OAuth2PasswordBearer"

// Interface modes.
const (
	ModeSynchronous  = "Synchronous"
	ModeAsynchronous = "Asynchronous"
)

var titleCaser = cases.Title(language.English)

// Endpoint is one operation in the document: a path, an HTTP method, and the
// operation object.
type Endpoint struct {
	Path      string
	Method    string
	Operation map[string]any
}

// TagGroup is the set of endpoints sharing one tag, in document order.
type TagGroup struct {
	Tag       string
	Endpoints []Endpoint
}

// Builder extracts operation descriptors from the document bound to its
// resolver.
type Builder struct {
	Logger spec.Logger

	doc *spec.Document
	res *resolve.Resolver
}

// NewBuilder creates a Builder over the resolver's document.
func NewBuilder(res *resolve.Resolver) *Builder {
	return &Builder{doc: res.Document(), res: res}
}

// Document returns the document the builder reads from.
func (b *Builder) Document() *spec.Document {
	return b.doc
}

func (b *Builder) log() spec.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return spec.NopLogger{}
}

// GroupByTag groups every operation by its tags, in first-seen tag order.
// Operations without tags land under DefaultTag. Path items and operations
// that are not objects are skipped with a warning.
func (b *Builder) GroupByTag() []TagGroup {
	paths, ok := spec.GetMap(b.doc.Data, "paths")
	if !ok || len(paths) == 0 {
		return nil
	}

	var order []string
	byTag := make(map[string]*TagGroup)

	for _, path := range b.doc.Keys(paths) {
		pathItem, ok := paths[path].(map[string]any)
		if !ok {
			b.log().Warn("skipping invalid path item: expected object", "path", path)
			continue
		}
		for _, method := range b.doc.Keys(pathItem) {
			if !spec.IsHTTPMethod(method) {
				continue
			}
			op, ok := pathItem[method].(map[string]any)
			if !ok {
				b.log().Warn("skipping invalid operation: expected object", "method", method, "path", path)
				continue
			}
			tags := operationTags(op)
			for _, tag := range tags {
				group, seen := byTag[tag]
				if !seen {
					group = &TagGroup{Tag: tag}
					byTag[tag] = group
					order = append(order, tag)
				}
				group.Endpoints = append(group.Endpoints, Endpoint{
					Path:      path,
					Method:    strings.ToUpper(method),
					Operation: op,
				})
			}
		}
	}

	groups := make([]TagGroup, 0, len(order))
	for _, tag := range order {
		groups = append(groups, *byTag[tag])
	}
	return groups
}

func operationTags(op map[string]any) []string {
	raw, ok := spec.GetSlice(op, "tags")
	if !ok || len(raw) == 0 {
		return []string{DefaultTag}
	}
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if s, ok := t.(string); ok && s != "" {
			tags = append(tags, s)
		}
	}
	if len(tags) == 0 {
		return []string{DefaultTag}
	}
	return tags
}

// Limit truncates groups to at most max endpoints in total, preserving group
// order. Non-positive max means no limit.
func Limit(groups []TagGroup, max int) []TagGroup {
	if max <= 0 {
		return groups
	}
	var out []TagGroup
	remaining := max
	for _, g := range groups {
		if remaining <= 0 {
			break
		}
		if len(g.Endpoints) > remaining {
			g.Endpoints = g.Endpoints[:remaining]
		}
		remaining -= len(g.Endpoints)
		out = append(out, g)
	}
	return out
}

// CountEndpoints sums the endpoints across groups.
func CountEndpoints(groups []TagGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Endpoints)
	}
	return n
}

// Authentication reports the security scheme name for an operation: the
// operation's own security requirement, falling back to the document's global
// one, resolved through components.securitySchemes. Defaults to
// DefaultAuthentication.
func (b *Builder) Authentication(op map[string]any) string {
	security, ok := spec.GetSlice(op, "security")
	if !ok {
		security, _ = spec.GetSlice(b.doc.Data, "security")
	}
	if len(security) == 0 {
		return DefaultAuthentication
	}

	first, ok := security[0].(map[string]any)
	if !ok || len(first) == 0 {
		return DefaultAuthentication
	}
	schemeName := b.doc.Keys(first)[0]

	components, _ := spec.GetMap(b.doc.Data, "components")
	schemes, _ := spec.GetMap(components, "securitySchemes")
	scheme, _ := spec.GetMap(schemes, schemeName)
	return spec.FirstNonEmpty(
		spec.GetString(scheme, "scheme"),
		spec.GetString(scheme, "type"),
		schemeName,
	)
}

// interfaceModeExtensions are checked in order on the operation, then the
// document root, then info.
var interfaceModeExtensions = []string{
	"x-interface-mode",
	"x_interface_mode",
	"x-interface-type",
	"x-interface",
	"x-mode",
}

// InterfaceMode reports whether the operation is synchronous or asynchronous.
// Vendor extensions win; otherwise the description, summary and operationId
// are sniffed for async keywords.
func (b *Builder) InterfaceMode(op map[string]any) string {
	info, _ := spec.GetMap(b.doc.Data, "info")
	for _, ext := range interfaceModeExtensions {
		if mode := normalizeInterfaceMode(op[ext]); mode != "" {
			return mode
		}
	}
	if mode := normalizeInterfaceMode(b.doc.Data["x-interface-mode"]); mode != "" {
		return mode
	}
	if mode := normalizeInterfaceMode(info["x-interface-mode"]); mode != "" {
		return mode
	}

	blob := strings.ToLower(strings.Join([]string{
		spec.GetString(op, "description"),
		spec.GetString(op, "summary"),
		spec.GetString(op, "operationId"),
	}, " "))
	if strings.Contains(blob, "async") {
		return ModeAsynchronous
	}
	return ModeSynchronous
}

func normalizeInterfaceMode(value any) string {
	s, ok := value.(string)
	if !ok {
		return ""
	}
	raw := strings.ToLower(strings.TrimSpace(s))
	switch raw {
	case "":
		return ""
	case "sync", "synchronous":
		return ModeSynchronous
	case "async", "asynchronous":
		return ModeAsynchronous
	}
	return titleCaser.String(raw)
}
