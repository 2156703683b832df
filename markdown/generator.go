package markdown

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iliakrupin/openapi-to-docx/describe"
	"github.com/iliakrupin/openapi-to-docx/spec"
)

// enhanceableLimit is the description length above which enhancement is
// skipped; long descriptions are assumed to be deliberate.
const enhanceableLimit = 160

// EndpointContext identifies the operation a description belongs to.
type EndpointContext struct {
	Method  string
	Path    string
	Summary string
	Tag     string
}

// Enhancer rewrites endpoint descriptions. Both methods must degrade
// gracefully: a failed enhancement returns an error and the generator keeps
// the original text.
type Enhancer interface {
	EnhanceBatch(ctx context.Context, items map[string]EndpointContext) (map[string]string, error)
	Enhance(ctx context.Context, description string, endpoint EndpointContext) (string, error)
}

// Generator renders an OpenAPI document as numbered markdown endpoint
// sections.
type Generator struct {
	Logger spec.Logger

	// Enhancer, when set, rewrites short endpoint descriptions. Failures
	// fall back to the original text.
	Enhancer Enhancer

	// MaxEndpoints caps how many endpoints are rendered. Non-positive
	// means all.
	MaxEndpoints int

	builder *describe.Builder
	doc     *spec.Document
}

// NewGenerator creates a Generator over the builder's document.
func NewGenerator(b *describe.Builder) *Generator {
	return &Generator{builder: b, doc: b.Document()}
}

func (g *Generator) log() spec.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return spec.NopLogger{}
}

// Generate renders the whole document. It never fails; documents without
// endpoints produce a short placeholder.
func (g *Generator) Generate(ctx context.Context) string {
	groups := g.builder.GroupByTag()
	total := spec.CountEndpoints(g.doc)

	groups = describe.Limit(groups, g.MaxEndpoints)
	if len(groups) == 0 {
		return "# API Documentation\n\nNo endpoints available in the specification."
	}
	processed := describe.CountEndpoints(groups)

	endpointInfo := fmt.Sprintf("%d endpoints", processed)
	if g.MaxEndpoints > 0 && processed < total {
		endpointInfo += fmt.Sprintf(" (of %d in the specification)", total)
	} else {
		endpointInfo += fmt.Sprintf(" per OpenAPI specification version %s", spec.FirstNonEmpty(spec.GetString(g.doc.Data, "openapi"), "unknown"))
	}

	lines := []string{"# API Documentation", "", endpointInfo, ""}

	enhanced := g.enhanceDescriptions(ctx, groups)

	index := 1
	for _, group := range groups {
		lines = append(lines, "## INTERACTION INTERFACES: "+group.Tag, "")
		for _, ep := range group.Endpoints {
			lines = append(lines, g.renderEndpoint(ctx, index, ep, enhanced)...)
			lines = append(lines, "---", "")
			index++
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// enhanceDescriptions batch-enhances every short description up front,
// keyed by the original text. Any failure leaves the map empty and the
// generator falls back to per-endpoint enhancement.
func (g *Generator) enhanceDescriptions(ctx context.Context, groups []describe.TagGroup) map[string]string {
	if g.Enhancer == nil {
		return nil
	}

	items := make(map[string]EndpointContext)
	for _, group := range groups {
		for _, ep := range group.Endpoints {
			description := g.endpointDescription(ep)
			if len(description) >= enhanceableLimit {
				continue
			}
			items[description] = EndpointContext{
				Method:  ep.Method,
				Path:    ep.Path,
				Summary: spec.FirstNonEmpty(spec.GetString(ep.Operation, "summary"), spec.GetString(ep.Operation, "operationId")),
				Tag:     group.Tag,
			}
		}
	}
	if len(items) == 0 {
		return nil
	}

	enhanced, err := g.Enhancer.EnhanceBatch(ctx, items)
	if err != nil {
		g.log().Warn("batch enhancement failed, falling back to individual", "error", err)
		return nil
	}
	return enhanced
}

func (g *Generator) endpointDescription(ep describe.Endpoint) string {
	return spec.FirstNonEmpty(
		spec.GetString(ep.Operation, "description"),
		fmt.Sprintf("%s request to %s", ep.Method, ep.Path),
	)
}

func (g *Generator) renderEndpoint(ctx context.Context, index int, ep describe.Endpoint, enhanced map[string]string) []string {
	op := ep.Operation
	b := g.builder

	summary := spec.FirstNonEmpty(
		spec.GetString(op, "summary"),
		spec.GetString(op, "operationId"),
		ep.Method+" "+ep.Path,
	)
	description := g.endpointDescription(ep)
	description = g.applyEnhancement(ctx, description, enhanced, EndpointContext{
		Method: ep.Method, Path: ep.Path, Summary: summary,
	})

	intro, detail := SplitStructured(description)
	introItems := BulletList(Sanitize(spec.FirstNonEmpty(intro, description)))
	detailItems := introItems
	hasDetail := strings.TrimSpace(detail) != ""
	if hasDetail {
		detailItems = BulletList(SanitizePreserveStructure(detail))
	}

	section := []string{fmt.Sprintf("## %d. %s", index, Sanitize(summary))}
	if hasDetail && len(introItems) > 0 {
		section = append(section, introItems...)
		section = append(section, "")
	}

	section = append(section, fmt.Sprintf("### %d.1 Description", index))
	section = append(section, detailItems...)
	section = append(section, "")

	section = append(section,
		fmt.Sprintf("### %d.2 Interface requirements", index),
		"| Parameter | Value |",
		"|-----------|-------|",
		fmt.Sprintf("| Synchronous/Asynchronous | %s |", b.InterfaceMode(op)),
		"| Technology | REST API (HTTP request-response) |",
		"| Response time | No more than 1 second |",
		"| Response format | JSON |",
		"| Encoding | UTF-8 |",
		fmt.Sprintf("| Authentication | %s |", b.Authentication(op)),
		"",
		fmt.Sprintf("### %d.3 Request format", index),
		"| Field | Value |",
		"|-------|-------|",
		fmt.Sprintf("| URL | `%s` |", ep.Path),
		fmt.Sprintf("| Method | `%s` |", ep.Method),
		"",
		fmt.Sprintf("### %d.4 Request parameters", index),
	)
	section = append(section, parametersTable(b.ParameterRows(op))...)

	section = append(section,
		fmt.Sprintf("### %d.5 Response format", index),
		"| Field | Type | Description |",
		"|-------|------|-------------|",
	)
	fields := b.SchemaFields(b.SuccessResponseSchema(op))
	if len(fields) > 0 {
		for _, f := range fields {
			section = append(section, fmt.Sprintf("| %s | %s | %s |", f.Name, f.Type, f.Description))
		}
	} else {
		section = append(section,
			"| errorCode | Integer | Error code (0 means no error) |",
			"| errorMessage | String | Error message |",
		)
	}

	section = append(section,
		"",
		fmt.Sprintf("### %d.6 Request example (JSON)", index),
		JSONBlock(b.RequestExample(op)),
		"",
		fmt.Sprintf("### %d.7 Response example (JSON)", index),
		JSONBlock(b.ResponseExample(op)),
		"",
		fmt.Sprintf("### %d.8 Error examples", index),
	)

	errorExamples := b.ErrorExamples(op)
	if len(errorExamples) > 0 {
		for _, example := range errorExamples {
			section = append(section, JSONBlock(example), "")
		}
	} else {
		section = append(section,
			"```json",
			`{ "error": "Invalid request", "code": 400 }`,
			"```",
			"",
			"```json",
			`{ "error": "Unauthorized", "code": 401 }`,
			"```",
			"",
			"```json",
			`{ "error": "Internal server error", "code": 500 }`,
			"```",
			"",
		)
	}

	return section
}

// applyEnhancement swaps in the enhanced description when available, keeping
// any structured blocks from the original, and falls back to per-endpoint
// enhancement when the batch missed this description.
func (g *Generator) applyEnhancement(ctx context.Context, description string, enhanced map[string]string, endpoint EndpointContext) string {
	if g.Enhancer == nil {
		return description
	}

	if better, ok := enhanced[description]; ok && better != "" {
		_, structured := SplitStructured(description)
		betterIntro, _ := SplitStructured(better)
		if structured != "" {
			if betterIntro != "" {
				return SanitizePreserveStructure(betterIntro + "\n\n" + structured)
			}
			return SanitizePreserveStructure(structured)
		}
		return SanitizePreserveStructure(better)
	}

	if len(description) >= enhanceableLimit {
		return description
	}
	intro, structured := SplitStructured(description)
	target := spec.FirstNonEmpty(intro, description)
	better, err := g.Enhancer.Enhance(ctx, target, endpoint)
	if err != nil {
		g.log().Warn("description enhancement failed", "method", endpoint.Method, "path", endpoint.Path, "error", err)
		return description
	}
	if structured != "" && intro != "" {
		return SanitizePreserveStructure(better + "\n\n" + structured)
	}
	return SanitizePreserveStructure(better)
}

func parametersTable(rows []describe.ParameterRow) []string {
	table := []string{
		"| Name | In | Type | Description | Required |",
		"|------|----|------|-------------|----------|",
	}
	if len(rows) == 0 {
		return append(table, "| - | - | - | No parameters | - |", "")
	}
	for _, row := range rows {
		required := "No"
		if row.Required {
			required = "Yes"
		}
		table = append(table, fmt.Sprintf("| %s | %s | %s | %s | %s |",
			row.Name, row.In, row.Type, row.Description, required))
	}
	return append(table, "")
}

// JSONBlock renders a value as a fenced, indented JSON code block. Values
// that cannot marshal render as an empty object.
func JSONBlock(payload any) string {
	if payload == nil {
		payload = map[string]any{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "```json\n{}\n```"
	}
	return "```json\n" + strings.TrimRight(buf.String(), "\n") + "\n```"
}
