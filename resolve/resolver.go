package resolve

import (
	"strings"

	"github.com/iliakrupin/openapi-to-docx/spec"
)

const (
	// MaxSynthesisDepth is the default ceiling for recursive descent during
	// example synthesis. Branches deeper than this are truncated to an empty
	// value rather than risking stack exhaustion on adversarial documents.
	MaxSynthesisDepth = 20

	// maxRefChain bounds chains of references pointing at references.
	// A $ref cycle with no inline fields would otherwise loop forever at
	// resolution time, before the synthesizer's visited set can intervene.
	maxRefChain = 32
)

// Resolver resolves $ref pointers within a single OpenAPI document and
// synthesizes example values from the resolved schemas.
//
// A Resolver is bound to one document for its whole lifetime, so the
// memoization cache is keyed by pointer string alone; there is no shared
// state between Resolvers and no locking requirement. Build a fresh Resolver
// per document being processed.
type Resolver struct {
	// Logger receives warnings for unresolvable references, cycles, and
	// truncated branches. If nil, logging is disabled.
	Logger spec.Logger

	// MaxDepth overrides the synthesis depth ceiling when positive.
	// Defaults to MaxSynthesisDepth.
	MaxDepth int

	doc   *spec.Document
	cache map[string]map[string]any
}

// New creates a Resolver bound to the given document.
func New(doc *spec.Document) *Resolver {
	return &Resolver{
		doc:   doc,
		cache: make(map[string]map[string]any),
	}
}

// Document returns the document this resolver is bound to.
func (r *Resolver) Document() *spec.Document {
	return r.doc
}

// ClearCache drops all memoized resolutions. A Resolver bound to a single
// document never needs this; it exists for embedders that rebind a long-lived
// Resolver by mutating the document between runs, where stale entries from
// the previous run would alias structurally different content.
func (r *Resolver) ClearCache() {
	clear(r.cache)
}

// log returns the configured logger, or a no-op logger if none is set.
func (r *Resolver) log() spec.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return spec.NopLogger{}
}

// Resolve resolves a schema node to a concrete schema object.
//
// A node without a $ref is returned unchanged (identity passthrough, not a
// copy). A node whose $ref points inside the document is replaced by the
// referenced schema, following chains of references to references. Every
// failure path (external reference, missing path segment, non-object target)
// logs a warning and returns the original node, so the caller always has
// some mapping to work with. Resolve never fails.
func (r *Resolver) Resolve(node map[string]any) map[string]any {
	return r.resolve(node, 0)
}

func (r *Resolver) resolve(node map[string]any, chain int) map[string]any {
	if len(node) == 0 {
		return map[string]any{}
	}

	ref := spec.GetString(node, "$ref")
	if ref == "" {
		return node
	}

	// Cache lookup happens before any document walk.
	if cached, ok := r.cache[ref]; ok {
		return cached
	}

	// Only intra-document pointers are supported.
	if !strings.HasPrefix(ref, "#/") {
		r.log().Warn("external reference is not supported, returning node unresolved", "ref", ref)
		return node
	}

	if chain >= maxRefChain {
		r.log().Warn("reference chain too long, returning node unresolved", "ref", ref, "limit", maxRefChain)
		return node
	}

	// Walk the document mapping by mapping.
	parts := strings.Split(strings.TrimPrefix(ref, "#/"), "/")
	current := any(r.doc.Data)
	for _, part := range parts {
		part = unescapeJSONPointer(part)
		m, ok := current.(map[string]any)
		if !ok {
			r.log().Warn("failed to resolve reference: intermediate value is not an object", "ref", ref, "segment", part)
			return node
		}
		next, ok := m[part]
		if !ok || next == nil {
			r.log().Warn("failed to resolve reference: missing key", "ref", ref, "segment", part)
			return node
		}
		current = next
	}

	resolved, ok := current.(map[string]any)
	if !ok {
		r.log().Warn("failed to resolve reference: target is not an object", "ref", ref)
		return node
	}

	// The target may itself be a reference; follow the chain before caching.
	final := r.resolve(resolved, chain+1)

	// Cache writes happen only on fully successful resolution chains.
	if spec.GetString(final, "$ref") == "" {
		r.cache[ref] = final
	}
	return final
}

// unescapeJSONPointer unescapes JSON Pointer tokens.
// Per RFC 6901, ~1 represents / and ~0 represents ~
func unescapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}
